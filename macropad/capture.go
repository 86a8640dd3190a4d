package macropad

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sigurn/crc16"
)

var captureCRCTable = crc16.MakeTable(crc16.CRC16_CCITT_FALSE)

// Capture logs every frame sent during a run, one hex line per frame, and
// finishes with a CRC16/CCITT-FALSE trailer over the raw frame bytes so two
// captures of the same config can be compared byte for byte.
type Capture struct {
	file   *os.File
	writer *bufio.Writer
	crc    uint16
	frames int
}

// NewCapture creates (or truncates) the capture file at path.
func NewCapture(path string) (*Capture, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating capture file: %w", err)
	}
	return &Capture{
		file:   f,
		writer: bufio.NewWriter(f),
		crc:    crc16.Init(captureCRCTable),
	}, nil
}

// Record appends one sent frame to the capture.
func (c *Capture) Record(f Frame) error {
	if _, err := fmt.Fprintln(c.writer, f.Hex()); err != nil {
		return fmt.Errorf("writing capture: %w", err)
	}
	c.crc = crc16.Update(c.crc, f.Data[:], captureCRCTable)
	c.frames++
	return nil
}

// Close writes the CRC trailer and releases the file.
func (c *Capture) Close() error {
	_, err := fmt.Fprintf(c.writer, "# %d frames, crc16 %04x\n",
		c.frames, crc16.Complete(c.crc, captureCRCTable))
	if err == nil {
		err = c.writer.Flush()
	}
	if cerr := c.file.Close(); err == nil {
		err = cerr
	}
	return err
}
