package cache

import (
	"fmt"
	"os"

	"clitter/internal/logger"
	"clitter/internal/models"

	"github.com/fxamacker/cbor/v2"
)

// recordVersion prefixes every stored value so a future layout can be told
// apart from this one.
const recordVersion byte = 1

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cache: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("cache: CBOR decoder initialization failed: " + err.Error())
	}
}

func encodeRecord(timeline models.Timeline) ([]byte, error) {
	if timeline == nil {
		timeline = models.Timeline{}
	}
	body, err := encMode.Marshal(timeline)
	if err != nil {
		return nil, fmt.Errorf("failed to encode timeline: %w", err)
	}
	return append([]byte{recordVersion}, body...), nil
}

func decodeRecord(value []byte) (models.Timeline, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrCorruptRecord)
	}
	if value[0] != recordVersion {
		return nil, fmt.Errorf("%w: unknown record version %d", ErrCorruptRecord, value[0])
	}
	var timeline models.Timeline
	if err := decMode.Unmarshal(value[1:], &timeline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return timeline, nil
}

// pebbleLogger routes pebble's internal messages into the application log.
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	logger.Debug("pebble", "msg", fmt.Sprintf(format, args...))
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	logger.Error("pebble", "msg", fmt.Sprintf(format, args...))
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("pebble_fatal", "msg", msg)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
