package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/dantweb/vbwd-sdk/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
