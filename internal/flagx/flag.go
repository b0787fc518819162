// Package flagx lets several components parse their own flags out of one
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments belonging to the listed flags, in order.
//
// Flags in valued take a value, given either as "-f=value" or as the next
// argument when that argument does not start with '-'. Flags in switches
// are booleans: only the "-f" or "-f=true|false" forms are kept and the next
// argument is never consumed.
func FilterArgs(args []string, valued []string, switches []string) []string {
	takesValue := make(map[string]bool, len(valued)+len(switches))
	for _, f := range valued {
		takesValue[f] = true
	}
	for _, f := range switches {
		takesValue[f] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := takesValue[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		needsValue, ok := takesValue[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if needsValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the settings file path given with -c or -config.
// It returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to settings file")
	fs.StringVar(&path, "c", "", "path to settings file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}, nil))

	return path
}
