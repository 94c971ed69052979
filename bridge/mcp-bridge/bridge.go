package main

import (
	"log"
	"os"

	"github.com/viant/mcpbridge/bridge/mcp"
	_ "github.com/viant/scy/kms/blowfish"
)

func main() {
	if err := mcp.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
