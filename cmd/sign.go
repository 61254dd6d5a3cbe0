package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/isometry/litium-webhooks/internal/helpers"
	"github.com/isometry/litium-webhooks/internal/validation"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var signSecret string

var signEnvMapString = map[*string]boundEnvVar[string]{
	&signSecret: {
		Name:        "sign-secret",
		Description: "The receiver secret used to sign the payload",
		Env:         helpers.Ptr("SIGN_SECRET"),
		Short:       helpers.Ptr("s"),
	},
}

// cmdSign prints the ms-signature header value of a payload read from a file or stdin, for crafting test requests.
func cmdSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [payload-file]",
		Short: "Compute the ms-signature header value of a webhook payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if signSecret == "" {
				return errors.New("a signing secret is required")
			}
			var (
				body []byte
				err  error
			)
			if len(args) == 1 {
				body, err = os.ReadFile(filepath.Clean(args[0]))
			} else {
				body, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return errors.Wrap(err, "failed to read payload")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), validation.NewSecret(signSecret).Sign(body))
			return err
		},
	}
	bindEnvMap(cmd, signEnvMapString)
	return cmd
}
