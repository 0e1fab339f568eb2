package wifiqr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ssb-ap-go/internal/constants"

	log "github.com/sirupsen/logrus"
)

// CommandConverter shells out to the external credential-to-image converter.
// The converter receives the raw SSID and password as arguments and performs
// its own payload escaping; conversion failures are the caller's to tolerate.
type CommandConverter struct {
	// Command is the converter executable (may include a leading
	// interpreter, e.g. "python3 /opt/.../make_qr.py").
	Command string
}

// NewCommandConverter builds a converter around the configured command line.
func NewCommandConverter(command string) *CommandConverter {
	return &CommandConverter{Command: command}
}

// Convert generates a join image for the credentials at outputPath.
func (c *CommandConverter) Convert(ctx context.Context, ssid, password, outputPath string) error {
	if strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("no QR generator command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, constants.QRConvertTimeout)
	defer cancel()

	parts := strings.Fields(c.Command)
	args := append(parts[1:], ssid, password, outputPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, parts[0], args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("qr conversion timed out")
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("qr conversion failed: %s: %w", detail, err)
		}
		return fmt.Errorf("qr conversion failed: %w", err)
	}

	log.WithField("output", outputPath).Debug("qr image generated")
	return nil
}

// CopyImage duplicates a generated image, used to keep the legacy unnamed
// image path current for the primary interface.
func CopyImage(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
