package main

import (
	"github.com/MarouaneBouaricha/ehamm/cmd/cli"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
