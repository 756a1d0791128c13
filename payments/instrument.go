package payments

import "fmt"

// DisplayField is a label/value pair shown to the customer so they can
// complete an offline payment.
type DisplayField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InstrumentDisplay extracts the customer-facing payment reference from the
// instrument details, when the payment type has one (Multibanco, MB Way).
func InstrumentDisplay(details map[string]any) []DisplayField {
	if details == nil {
		return nil
	}
	params, _ := details["parameters"].(map[string]any)
	if params == nil {
		return nil
	}
	str := func(key string) string {
		if v, ok := params[key]; ok {
			return fmt.Sprintf("%v", v)
		}
		return ""
	}

	switch details["type"] {
	case "multibanco":
		// Group the reference into blocks of three digits.
		raw := str("reference")
		reference := ""
		for i, r := range raw {
			reference += string(r)
			if (i+1)%3 == 0 {
				reference += " "
			}
		}
		return []DisplayField{
			{Label: "Entidade", Value: str("entity")},
			{Label: "Referência", Value: reference},
			{Label: "Montante", Value: str("value")},
		}
	case "mbway":
		return []DisplayField{
			{Label: "Referência", Value: str("reference")},
			{Label: "Montante", Value: str("value")},
		}
	}
	return nil
}
