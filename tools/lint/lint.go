package main

import (
	"fmt"
	"os"
	"os/exec"
)

type step struct {
	name string
	cmd  string
	args []string
}

// steps run from the module root. The e2e vet keeps the tagged live tests
// compiling even though they are skipped by default.
var steps = []step{
	{"gofmt", "gofmt", []string{"-l", "-w", "."}},
	{"vet", "go", []string{"vet", "./..."}},
	{"vet (e2e)", "go", []string{"vet", "-tags", "e2e", "./client/..."}},
	{"golangci-lint", "golangci-lint", []string{"run", "./..."}},
	{"install staticcheck", "go", []string{"install", "honnef.co/go/tools/cmd/staticcheck@latest"}},
	{"staticcheck", "staticcheck", []string{"./..."}},
	{"tests", "go", []string{"test", "-race", "./..."}},
}

func runCommand(cmd string, args []string) error {
	command := exec.Command(cmd, args...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", cmd, args, err)
	}
	return nil
}

func main() {
	failed := 0
	for _, s := range steps {
		fmt.Printf("==> %s\n", s.name)
		if err := runCommand(s.cmd, s.args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d checks failed\n", failed, len(steps))
		os.Exit(1)
	}
	fmt.Println("All checks completed!")
}
