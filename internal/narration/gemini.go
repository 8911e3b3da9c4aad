package narration

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

var pcmBitsPattern = regexp.MustCompile(`audio/L(\d+)`)

// Gemini synthesizes speech with a Gemini TTS model and a prebuilt voice.
// The per-language voice id is ignored; Gemini voices are multilingual.
type Gemini struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGemini creates a Gemini synthesizer. apiEndpoint may be empty.
func NewGemini(ctx context.Context, apiKey, model, voice, apiEndpoint string) (*Gemini, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if apiEndpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: apiEndpoint}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create unified genai client: %w", err)
	}
	return &Gemini{client: client, model: model, voice: voice}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Synthesize streams audio for text and wraps raw PCM output as WAV.
func (g *Gemini) Synthesize(ctx context.Context, text, _ string) (*Audio, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(text)}},
	}
	temp := float32(1.0)
	config := &genai.GenerateContentConfig{
		Temperature:        &temp,
		ResponseModalities: []string{"audio"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	var buf bytes.Buffer
	var mimeType string
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return nil, fmt.Errorf("TTS stream error: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				buf.Write(part.InlineData.Data)
				if part.InlineData.MIMEType != "" {
					mimeType = part.InlineData.MIMEType
				}
			}
		}
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("TTS returned no audio data")
	}

	data := buf.Bytes()
	if mimeType == "" || strings.HasPrefix(mimeType, "audio/L") {
		log.Debug().Str("mime_type", mimeType).Msg("Converting raw PCM to WAV")
		data = convertToWAV(data, mimeType)
		mimeType = "audio/wav"
	}
	return &Audio{Data: data, MimeType: mimeType}, nil
}

// convertToWAV prefixes mono PCM samples with a RIFF/WAVE header.
func convertToWAV(pcm []byte, mimeType string) []byte {
	params := parseAudioMimeType(mimeType)
	const numChannels = 1
	blockAlign := numChannels * params.bitsPerSample / 8
	byteRate := params.rate * blockAlign

	header := new(bytes.Buffer)
	header.WriteString("RIFF")
	_ = binary.Write(header, binary.LittleEndian, uint32(36+len(pcm)))
	header.WriteString("WAVEfmt ")
	_ = binary.Write(header, binary.LittleEndian, uint32(16))
	_ = binary.Write(header, binary.LittleEndian, uint16(1))
	_ = binary.Write(header, binary.LittleEndian, uint16(numChannels))
	_ = binary.Write(header, binary.LittleEndian, uint32(params.rate))
	_ = binary.Write(header, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(header, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(header, binary.LittleEndian, uint16(params.bitsPerSample))
	header.WriteString("data")
	_ = binary.Write(header, binary.LittleEndian, uint32(len(pcm)))

	return append(header.Bytes(), pcm...)
}

type audioParams struct {
	bitsPerSample int
	rate          int
}

// parseAudioMimeType reads bits per sample and rate from e.g. "audio/L16;codec=pcm;rate=24000".
func parseAudioMimeType(mimeType string) audioParams {
	params := audioParams{bitsPerSample: 16, rate: 24000}
	for _, part := range strings.Split(mimeType, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(strings.ToLower(part), "rate="); ok {
			if rate, err := strconv.Atoi(v); err == nil {
				params.rate = rate
			}
		} else if m := pcmBitsPattern.FindStringSubmatch(part); len(m) > 1 {
			if bits, err := strconv.Atoi(m[1]); err == nil {
				params.bitsPerSample = bits
			}
		}
	}
	return params
}
