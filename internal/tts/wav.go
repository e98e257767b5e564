package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// wavFormat is the fmt chunk of a PCM WAV file.
type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

func (f wavFormat) blockAlign() uint16 {
	return f.Channels * f.BitsPerSample / 8
}

func (f wavFormat) byteRate() uint32 {
	return f.SampleRate * uint32(f.blockAlign())
}

// duration returns the playing time of size bytes of sample data.
func (f wavFormat) duration(size int) time.Duration {
	rate := f.byteRate()
	if rate == 0 {
		return 0
	}
	return time.Duration(float64(size) / float64(rate) * float64(time.Second))
}

// parseWAV parses a RIFF/WAVE file and returns its format and sample data.
// Chunks other than fmt and data (LIST, fact, ...) are skipped.
func parseWAV(data []byte) (wavFormat, []byte, error) {
	var format wavFormat
	if len(data) < 44 {
		return format, nil, fmt.Errorf("file too small to be a valid WAV")
	}
	if string(data[0:4]) != "RIFF" {
		return format, nil, fmt.Errorf("not a valid RIFF file")
	}
	if string(data[8:12]) != "WAVE" {
		return format, nil, fmt.Errorf("not a valid WAVE file")
	}

	pos := 12
	var haveFmt bool
	var dataStart, dataSize int

	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return format, nil, fmt.Errorf("truncated fmt chunk")
			}
			format.AudioFormat = binary.LittleEndian.Uint16(data[body : body+2])
			format.Channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			format.SampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			format.BitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			dataStart = body
			dataSize = chunkSize
		}

		// Streaming writers leave the data size unset
		if chunkID == "data" && (chunkSize == 0 || chunkSize == 0xFFFFFFFF) {
			dataSize = len(data) - body
		}

		pos = body + chunkSize
		if pos%2 != 0 {
			pos++ // Word alignment
		}
		if dataStart > 0 && haveFmt {
			break
		}
	}

	if !haveFmt || dataStart == 0 {
		return format, nil, fmt.Errorf("missing required WAV chunks")
	}
	if format.SampleRate == 0 || format.Channels == 0 || format.BitsPerSample == 0 {
		return format, nil, fmt.Errorf("invalid WAV format: %d Hz, %d channels, %d bits",
			format.SampleRate, format.Channels, format.BitsPerSample)
	}

	if dataStart+dataSize > len(data) {
		dataSize = len(data) - dataStart
	}
	return format, data[dataStart : dataStart+dataSize], nil
}

// writeWAV writes a canonical 44-byte-header WAV file.
func writeWAV(w io.Writer, format wavFormat, samples []byte) error {
	if format.AudioFormat == 0 {
		format.AudioFormat = 1 // PCM
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, format.AudioFormat)
	_ = binary.Write(&buf, binary.LittleEndian, format.Channels)
	_ = binary.Write(&buf, binary.LittleEndian, format.SampleRate)
	_ = binary.Write(&buf, binary.LittleEndian, format.byteRate())
	_ = binary.Write(&buf, binary.LittleEndian, format.blockAlign())
	_ = binary.Write(&buf, binary.LittleEndian, format.BitsPerSample)

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	_, err := w.Write(samples)
	return err
}
