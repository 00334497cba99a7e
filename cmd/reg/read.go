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

package reg

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pmbus/pkg/command"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

func format(reg *store.Reg) string {
	s := fmt.Sprintf("Register state: %02X/%02X", reg.Address, reg.Command)
	if reg.Name != "" {
		s += fmt.Sprintf(" (%s)", reg.Name)
	}
	s += fmt.Sprintf(" = %s", reg.Data)
	if reg.Value != nil {
		s += fmt.Sprintf(" (%s)", reg.Value)
	}
	return s
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return uint8(v), err
}

func NewReadCommand(cfg *config.Config) *cobra.Command {
	var capture, addr, cmdCode string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the last value seen for a register",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			if addr != "" && cmdCode != "" {
				a, err := parseByte(addr)
				if err != nil {
					return err
				}
				c, err := parseByte(cmdCode)
				if err != nil {
					return err
				}
				reg, err := apiClient.RegRead(capture, a, c)
				if err != nil {
					return err
				}
				cmd.Println(format(reg))
				return nil
			}
			regs, err := apiClient.RegReadAll(capture)
			if err != nil {
				return err
			}
			for _, reg := range regs {
				cmd.Println(format(reg))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&capture, CaptureOptionName, "", "Capture name")
	cmd.MarkFlagRequired(CaptureOptionName)
	cmd.Flags().StringVar(&addr, AddrOptionName, "", "Device address (hexadecimal, e.g. 0x40)")
	cmd.Flags().StringVar(&cmdCode, CmdOptionName, "", "Command code (hexadecimal, e.g. 0x8B)")

	return cmd
}
