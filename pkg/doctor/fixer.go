package doctor

import (
	"fmt"
)

// fixCommands defines fix commands for each tool. The provisioner
// targets apt-based build hosts, so every fix goes through apt.
var fixCommands = map[string]*FixCommand{
	IDPython: {
		Description: "Install Python 3 via apt",
		Command:     "sudo apt-get install -y python3",
		Sudo:        true,
	},
	IDPip: {
		Description: "Install pip via apt",
		Command:     "sudo apt-get install -y python3-pip",
		Sudo:        true,
	},
}

// GetFixCommand returns the fix command for a tool, or nil when none
// exists.
func GetFixCommand(toolID string) *FixCommand {
	return fixCommands[toolID]
}

// Fixer provides functionality to run fix commands.
type Fixer struct {
	executor CommandExecutor
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{
		executor: &RealExecutor{},
	}
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(exec CommandExecutor) *Fixer {
	return &Fixer{
		executor: exec,
	}
}

// RunFix executes a fix command.
func (f *Fixer) RunFix(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	// Run the command through shell using the executor
	output, err := f.executor.CombinedOutput("sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}
