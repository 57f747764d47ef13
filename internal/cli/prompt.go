package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/tacogips/rcsync/internal/app"
)

// confirmFunc is the interactive publish gate. Replaced in tests.
var confirmFunc = promptPublish

// promptPublish asks whether the shown changes should be published.
func promptPublish(d *app.DiffResult) (bool, error) {
	result := true
	prompt := &survey.Confirm{
		Message: publishQuestion(d),
		Default: true,
		Help:    "The local tree replaces the remote template. Answer no to keep the remote as is.",
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func publishQuestion(d *app.DiffResult) string {
	return fmt.Sprintf("Publish %d changed parameter(s) over version %s?",
		len(d.Changes), d.Remote.VersionNumber())
}
