package main

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/fechador/plugin/ai/aitime"
	"github.com/hrygo/fechador/server"
	apiv1 "github.com/hrygo/fechador/server/router/api/v1"
	"github.com/hrygo/fechador/server/timezone"
)

func newResolveCmd(c *cli) *cobra.Command {
	var ref, tz string

	cmd := &cobra.Command{
		Use:   "resolve <expression>",
		Short: "Resolve one expression and print the API response",
		Example: `  fechador resolve "el viernes a las 7" --ref 2025-11-04T09:00:00+01:00
  fechador resolve "dijous a les 5 de la tarda" --tz Europe/Madrid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			resolver, err := server.NewResolver(p, nil)
			if err != nil {
				return err
			}

			loc, err := timezone.ParseTimezone(tz, resolver.DefaultLocation())
			if err != nil {
				return err
			}
			reference := time.Now().In(loc)
			if ref != "" {
				if reference, err = timezone.ParseReference(ref); err != nil {
					return err
				}
			}

			outcome, err := resolver.Resolve(cmd.Context(), aitime.Request{
				Expression: args[0],
				Reference:  reference,
				Location:   loc,
			})
			if err != nil {
				return errors.Wrap(err, "resolution failed")
			}

			var body any = aitime.Assemble(outcome, reference.In(loc))
			if outcome.Kind == aitime.Unresolved {
				body = apiv1.ErrorResponse{Error: true, Mensaje: "no se pudo interpretar la expresión temporal"}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(body)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "reference instant, RFC3339 with offset (default now)")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA zone (default the configured timezone)")
	return cmd
}
