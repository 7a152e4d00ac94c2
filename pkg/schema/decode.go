package schema

import (
	"github.com/mitchellh/mapstructure"
)

// Decode maps resolved arguments onto a typed result struct, matching fields
// by their json tags. Input is treated weakly, in line with the best-effort
// extraction philosophy: "2" fills an int, 1 fills a bool.
func Decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}
