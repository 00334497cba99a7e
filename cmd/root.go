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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pmbus/cmd/completion"
	"jinr.ru/greenlab/go-pmbus/cmd/config"
	"jinr.ru/greenlab/go-pmbus/cmd/decode"
	"jinr.ru/greenlab/go-pmbus/cmd/profile"
	"jinr.ru/greenlab/go-pmbus/cmd/reg"
	"jinr.ru/greenlab/go-pmbus/cmd/serve"
	"jinr.ru/greenlab/go-pmbus/cmd/tx"
	pkgconfig "jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel string
	cfg := pkgconfig.NewDefaultConfig()
	loadErr := cfg.Load()
	cmd := &cobra.Command{
		Use:          "go-pmbus",
		Short:        "Tool to decode PMBus/SMBus traffic from logic analyzer captures",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(decode.NewCommand(cfg))
	cmd.AddCommand(serve.NewCommand(cfg))
	cmd.AddCommand(tx.NewCommand(cfg))
	cmd.AddCommand(reg.NewCommand(cfg))
	cmd.AddCommand(profile.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	return cmd
}
