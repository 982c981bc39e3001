package cli

import (
	"fmt"

	"github.com/aretw0/protocolfill/internal/presentation/tui"
	"github.com/aretw0/protocolfill/pkg/config"
)

// RunValidate lints a question configuration file.
func RunValidate(env *Env, questionsPath string) error {
	configs, err := config.LoadQuestions(questionsPath)
	if err != nil {
		return err
	}

	err = config.Validate(configs)
	if err == nil {
		tui.Status(env.Stdout, true, fmt.Sprintf("%d questions are valid", len(configs)))
		return nil
	}

	problems := config.ValidationErrors(err)
	if len(problems) == 0 {
		problems = []error{err}
	}
	for _, p := range problems {
		fmt.Fprintf(env.Stdout, "  - %v\n", p)
	}
	tui.Status(env.Stdout, false, fmt.Sprintf("%d problems in %d questions", len(problems), len(configs)))
	return fmt.Errorf("validation failed")
}
