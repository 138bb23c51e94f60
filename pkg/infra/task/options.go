package task

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// checkOptions rejects missing required options and options the executor does not know
func checkOptions(options map[string]string, required, optional []string) error {
	known := make(map[string]bool, len(required)+len(optional))
	for _, key := range required {
		known[key] = true
		if options[key] == "" {
			return goerr.New("required option is missing", goerr.V("option", key))
		}
	}
	for _, key := range optional {
		known[key] = true
	}

	var unknown []string
	for key := range options {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return goerr.New("unknown option", goerr.V("options", unknown))
	}
	return nil
}
