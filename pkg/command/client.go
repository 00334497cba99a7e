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
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-pmbus/pkg/bus"
	"jinr.ru/greenlab/go-pmbus/pkg/config"
	"jinr.ru/greenlab/go-pmbus/pkg/srv"
	"jinr.ru/greenlab/go-pmbus/pkg/store"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s%s", cfg.ApiAddress(), srv.ApiPrefix),
	}
}

func (c *ApiClient) txUrl(capture string) string {
	return fmt.Sprintf("%s/tx/%s", c.ApiPrefix, url.PathEscape(capture))
}

func (c *ApiClient) regReadUrl(capture string) string {
	return fmt.Sprintf("%s/reg/r/%s", c.ApiPrefix, url.PathEscape(capture))
}

func checkStatus(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Captures sends request to list the stored captures
func (c *ApiClient) Captures() ([]string, error) {
	r, err := req.Get(fmt.Sprintf("%s/captures", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var names []string
	err = r.ToJSON(&names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Transactions sends request to get the decoded transactions of a capture
func (c *ApiClient) Transactions(capture string) ([]*bus.Record, error) {
	r, err := req.Get(c.txUrl(capture))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var records []*bus.Record
	err = r.ToJSON(&records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *ApiClient) DeleteCapture(capture string) error {
	r, err := req.Delete(c.txUrl(capture))
	if err != nil {
		return err
	}
	return checkStatus(r)
}

// RegRead sends request to get the last observed value of a register
func (c *ApiClient) RegRead(capture string, addr, cmd uint8) (*store.Reg, error) {
	r, err := req.Get(fmt.Sprintf("%s/0x%02x/0x%02x", c.regReadUrl(capture), addr, cmd))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	reg := &store.Reg{}
	err = r.ToJSON(reg)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// RegReadAll sends request to get all registers observed in a capture
func (c *ApiClient) RegReadAll(capture string) ([]*store.Reg, error) {
	r, err := req.Get(c.regReadUrl(capture))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var regs []*store.Reg
	err = r.ToJSON(&regs)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *ApiClient) Profiles() ([]srv.ProfileInfo, error) {
	r, err := req.Get(fmt.Sprintf("%s/profiles", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r); err != nil {
		return nil, err
	}
	var infos []srv.ProfileInfo
	err = r.ToJSON(&infos)
	if err != nil {
		return nil, err
	}
	return infos, nil
}
