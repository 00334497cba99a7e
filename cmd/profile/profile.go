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

package profile

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Decoding profiles",
	}
	cmd.AddCommand(NewListCommand(cfg))
	cmd.AddCommand(NewShowCommand(cfg))
	return cmd
}

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in profiles and the ones in the profiles directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := bus.AllProfiles(cfg.ProfilesDir)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				cmd.Printf("%-12s %s\n", p.Name, p.Description)
			}
			return nil
		},
	}
	return cmd
}

func NewShowCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a profile in the profile file format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bus.ResolveProfile(args[0], cfg.ProfilesDir)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(bus.NewProfileFile(p))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
