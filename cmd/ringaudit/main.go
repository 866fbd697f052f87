package main

import (
	"os"

	"github.com/pyropy/ringaudit/core/audit"
	"github.com/pyropy/ringaudit/lib/logger"
)

var log, _ = logger.New("ringaudit")

func main() {
	cfg, err := audit.GetConfig()
	if err != nil {
		log.Fatalln("startup", "ERROR", err)
	}

	if err := newApp(cfg).Run(os.Args); err != nil {
		log.Fatalln("audit", "ERROR", err)
	}
}
