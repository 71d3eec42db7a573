// Package flagx lets several independent flag sets share one command line.
// Each configuration layer picks only the flags it understands, so the
// server and client configs never trip over each other's options.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the subset of args whose flag name is in allowedFlags,
// together with their values.
//
// Supported forms:
//
//	-c recipes.yaml      (value as the next argument)
//	--config=recipes.yaml (value after '=')
//
// A following argument is treated as the value only when it does not start
// with '-'. The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFileFlag extracts the path given via -c or -config. Everything else
// in args is ignored. Returns "" when neither flag is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to YAML config file")
	fs.StringVar(&path, "c", "", "path to YAML config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
