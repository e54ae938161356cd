// Package config implements the CLI surface from spec.md §6 "EXTERNAL
// INTERFACES" (flag parsing, MOTD loading, MOTD hot-reload) plus the
// default MOTD text bundled with the server. Flag parsing uses
// spf13/pflag so the combined short/long aliases (`-i, --identity`)
// don't need hand-rolled duplicate flag.StringVar registrations the way
// cmd/vision3/main.go does with the standard flag package.
package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the parsed command-line configuration.
type Flags struct {
	Port      uint16
	Identity  string
	Oplist    string
	Whitelist string
	MOTD      string
	Log       string
	Debug     int
}

// ParseFlags parses args (typically os.Args[1:]) into a Flags value.
func ParseFlags(args []string) (*Flags, error) {
	fs := pflag.NewFlagSet("chatd", pflag.ContinueOnError)

	f := &Flags{}
	fs.Uint16Var(&f.Port, "port", 2222, "listen port")
	fs.StringVarP(&f.Identity, "identity", "i", "", "server private key (default: ephemeral ed25519)")
	fs.StringVar(&f.Oplist, "oplist", "", "operator public-key file")
	fs.StringVar(&f.Whitelist, "whitelist", "", "trusted public-key file (enables whitelist mode)")
	fs.StringVar(&f.MOTD, "motd", "", "MOTD file (default: bundled)")
	fs.StringVar(&f.Log, "log", "", "log output path")
	fs.CountVarP(&f.Debug, "debug", "d", "repeatable: Info→Debug→Trace")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
