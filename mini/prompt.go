package mini

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cue-cli/cue/icon"
	"github.com/cue-cli/cue/query"
	"github.com/cue-cli/cue/style"
	"github.com/cue-cli/cue/util"
)

// Synthetic menu entries appended to every selection list.
const (
	optionBack = "Back"
	optionQuit = "Quit"
)

func title(s string) {
	fmt.Println(style.Title(s))
}

func fail(s string) {
	fmt.Println(icon.Get(icon.Fail) + " " + style.Fg(style.Red)(s))
}

func progress(msg string) (eraser func()) {
	return util.PrintErasable(icon.Get(icon.Progress) + " " + style.Faint(msg))
}

// input prompts for a line of text, offering search history suggestions.
func input(msg string, validate func(string) bool) (string, error) {
	prompt := &survey.Input{
		Message: msg,
		Suggest: query.SuggestMany,
	}

	var value string
	err := survey.AskOne(prompt, &value, survey.WithValidator(func(ans interface{}) error {
		s, _ := ans.(string)
		if !validate(s) {
			return fmt.Errorf("invalid input")
		}
		return nil
	}))
	return value, err
}

// menu prompts for a choice among labels plus the synthetic Back/Quit
// entries. It returns the selected index, or -1 with back/quit set.
func menu(msg string, labels []string, withBack bool) (index int, back, quit bool, err error) {
	options := make([]string, 0, len(labels)+2)
	options = append(options, labels...)
	if withBack {
		options = append(options, optionBack)
	}
	options = append(options, optionQuit)

	prompt := &survey.Select{
		Message:  msg,
		Options:  options,
		PageSize: util.Min(len(options), 15),
	}

	var choice string
	if err = survey.AskOne(prompt, &choice); err != nil {
		return -1, false, false, err
	}

	switch choice {
	case optionBack:
		return -1, true, false, nil
	case optionQuit:
		return -1, false, true, nil
	}

	for i, label := range labels {
		if label == choice {
			return i, false, false, nil
		}
	}
	return -1, false, false, fmt.Errorf("selection %q not in menu", choice)
}

// confirm asks a yes/no question.
func confirm(msg string) (bool, error) {
	var answer bool
	err := survey.AskOne(&survey.Confirm{Message: msg, Default: true}, &answer)
	return answer, err
}
