// Command chatd is the SSH multi-user chat server described by spec.md:
// it wires the CLI flags, key stores, room, and SSH transport together
// and blocks serving connections until the process is killed. Startup
// sequencing and log style follow cmd/vision3/main.go's conventions.
package main

import (
	"fmt"
	"os"

	"github.com/sshchat/chatd/internal/auth"
	"github.com/sshchat/chatd/internal/config"
	"github.com/sshchat/chatd/internal/logging"
	"github.com/sshchat/chatd/internal/room"
	"github.com/sshchat/chatd/internal/sshd"
)

func main() {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := logging.Info
	switch {
	case flags.Debug >= 2:
		level = logging.Trace
	case flags.Debug == 1:
		level = logging.Debug
	}
	log := logging.NewStderr(level)
	if flags.Log != "" {
		f, err := os.OpenFile(flags.Log, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("FATAL: cannot open log file %s: %v", flags.Log, err)
		}
		defer f.Close()
		log = logging.New(f, level)
	}

	log.Infof("starting chatd")

	motd := config.DefaultMOTD
	if flags.MOTD != "" {
		text, err := config.LoadMOTD(flags.MOTD)
		if err != nil {
			log.Fatalf("FATAL: cannot load MOTD %s: %v", flags.MOTD, err)
		}
		motd = text
	}

	a, err := auth.New(flags.Oplist, flags.Whitelist)
	if err != nil {
		log.Fatalf("FATAL: cannot load key files: %v", err)
	}
	a.StartBanSweep()
	defer a.Stop()

	r := room.New(motd, a)

	if flags.MOTD != "" {
		watcher, err := config.WatchMOTD(flags.MOTD, log, r.SetMOTD)
		if err != nil {
			log.Debugf("MOTD hot-reload disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	hostKey, err := sshd.LoadOrGenerateHostKey(flags.Identity)
	if err != nil {
		log.Fatalf("FATAL: host key: %v", err)
	}

	srv := sshd.NewServer(r, a, hostKey, log)
	addr := fmt.Sprintf(":%d", flags.Port)
	log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}
