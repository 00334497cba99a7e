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

package decode

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-pmbus/pkg/command"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
)

const (
	ProfileOptionName    = "profile"
	ShowBitsOptionName   = "show-bits"
	SampleRateOptionName = "sample-rate"
	SCLChannelOptionName = "scl"
	SDAChannelOptionName = "sda"
	FormatOptionName     = "format"
	OutputOptionName     = "output"
	StoreOptionName      = "store"
	BusOptionName        = "bus"
	RowsOptionName       = "rows"
)

const decodeExample = `
Decode two channels of a Logic 2 capture with the extended profile
# go-pmbus decode capture.sal --scl 0 --sda 1 --profile xdpe19284c

Decode a binary export and keep only transaction summaries
# go-pmbus decode digital_0.bin digital_1.bin --format summary

Print start, stop, address and data annotations without bits
# go-pmbus decode capture.sal --rows signals

Export the transactions for Wireshark and store them as "board1"
# go-pmbus decode capture.sal --format pcap --output board1.pcap --store board1
`

func NewCommand(cfg *config.Config) *cobra.Command {
	opts := command.DecodeOptions{}
	var profile string
	var sampleRate float64
	cmd := &cobra.Command{
		Use:     "decode CAPTURE.sal | SCL.bin SDA.bin",
		Short:   "Decode a logic analyzer capture",
		Example: decodeExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if len(args) == 2 {
				opts.SDAInput = args[1]
			}
			if profile != "" {
				cfg.Profile = profile
			}
			if cmd.Flags().Changed(ShowBitsOptionName) {
				cfg.ShowBits, _ = cmd.Flags().GetBool(ShowBitsOptionName)
			}
			if sampleRate > 0 {
				cfg.SampleRate = sampleRate
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return command.Decode(ctx, cfg, opts)
		},
	}
	cmd.Flags().StringVar(&profile, ProfileOptionName, "", fmt.Sprintf("Decoding profile. Default %s", cfg.Profile))
	cmd.Flags().Bool(ShowBitsOptionName, cfg.ShowBits, "Annotate every data bit")
	cmd.Flags().Float64Var(&sampleRate, SampleRateOptionName, 0, "Samples per second used to index edges. Default 1e9")
	cmd.Flags().IntVar(&opts.SCLChannel, SCLChannelOptionName, 0, "Clock channel index in a .sal capture")
	cmd.Flags().IntVar(&opts.SDAChannel, SDAChannelOptionName, 1, "Data channel index in a .sal capture")
	cmd.Flags().StringVar(&opts.Format, FormatOptionName, command.FormatText,
		fmt.Sprintf("Output format: %s, %s, %s or %s", command.FormatText, command.FormatSummary, command.FormatYAML, command.FormatPcap))
	cmd.Flags().StringVarP(&opts.Output, OutputOptionName, "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&opts.Capture, StoreOptionName, "", "Store the transactions under this capture name")
	cmd.Flags().Uint8Var(&opts.Bus, BusOptionName, 0, "I2C adapter number written into pcap records")
	cmd.Flags().StringSliceVar(&opts.Rows, RowsOptionName, nil, "Print only these annotation rows of the text output: bus, signals, bits")
	return cmd
}
