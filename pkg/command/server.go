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

package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/srv"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

// StartApiServer serves the store until the process is interrupted
func StartApiServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, err := store.NewState(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer state.Close()

	s, err := srv.NewApiServer(ctx, cfg, state)
	if err != nil {
		return err
	}
	return s.Run()
}
