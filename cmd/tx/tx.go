/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package tx

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pmbus/pkg/command"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Browse transactions stored by the API server",
	}
	cmd.AddCommand(NewListCommand(cfg))
	cmd.AddCommand(NewDeleteCommand(cfg))
	return cmd
}

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [CAPTURE]",
		Short: "List stored captures or the transactions of a capture",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if len(args) == 0 {
				names, err := apiClient.Captures()
				if err != nil {
					return err
				}
				for _, name := range names {
					cmd.Println(name)
				}
				return nil
			}
			records, err := apiClient.Transactions(args[0])
			if err != nil {
				return err
			}
			for _, rec := range records {
				cmd.Println(fmt.Sprintf("%d-%d %s", rec.StartSample, rec.EndSample, rec.Summary))
			}
			return nil
		},
	}
	return cmd
}

func NewDeleteCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete CAPTURE",
		Short: "Delete a stored capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).DeleteCapture(args[0])
		},
	}
	return cmd
}
