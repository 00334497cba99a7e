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

package export

import (
	"bufio"
	"io"
	"os"

	"jinr.ru/greenlab/go-pmbus/pkg/log"
)

// Stdout is the file name that makes NewWriter write to standard output
const Stdout = "-"

// Writer is a buffered output file. Close must be called to flush it.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
}

func NewWriter(filename string) (*Writer, error) {
	if filename == Stdout || filename == "" {
		return &Writer{writer: bufio.NewWriter(os.Stdout)}, nil
	}
	file, err := os.Create(filename)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, err
	}
	return &Writer{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *Writer) Write(buf []byte) (int, error) {
	return w.writer.Write(buf)
}

func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

var _ io.WriteCloser = &Writer{}
