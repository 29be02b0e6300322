package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

// ErrVoiceNotConfigured is returned when a voice operation is requested but
// the required vendor is not configured.
var ErrVoiceNotConfigured = errors.New("voice services not fully configured")

// BotLauncher asks the external pipeline runner to join a room. The media
// pipeline itself runs outside this server.
type BotLauncher interface {
	LaunchBot(ctx context.Context, roomURL, token string, mode entities.SessionMode) error
}

// RoomGrant is what a client needs to join a provisioned voice room.
type RoomGrant struct {
	RoomURL string               `json:"room_url"`
	Token   string               `json:"token"`
	Mode    entities.SessionMode `json:"mode"`
}

// VoiceStatus reports which vendor integrations are configured.
type VoiceStatus struct {
	Rooms bool `json:"rooms"`
	STT   bool `json:"stt"`
	TTS   bool `json:"tts"`
	LLM   bool `json:"llm"`
	Ready bool `json:"ready"`
}

// VoiceService orchestrates the third-party voice vendors: WebRTC room
// provisioning, one-shot transcription, reference-pronunciation synthesis,
// and scenario generation. Any dependency may be nil when unconfigured.
type VoiceService struct {
	rooms     repositories.RoomProvisioner
	bot       BotLauncher
	stt       repositories.SpeechToText
	tts       repositories.TextToSpeech
	scenarios repositories.ScenarioGenerator
	logger    *zap.Logger
}

// NewVoiceService creates a new voice service.
func NewVoiceService(
	rooms repositories.RoomProvisioner,
	bot BotLauncher,
	stt repositories.SpeechToText,
	tts repositories.TextToSpeech,
	scenarios repositories.ScenarioGenerator,
	logger *zap.Logger,
) *VoiceService {
	return &VoiceService{
		rooms:     rooms,
		bot:       bot,
		stt:       stt,
		tts:       tts,
		scenarios: scenarios,
		logger:    logger,
	}
}

// Status reports vendor readiness.
func (s *VoiceService) Status() VoiceStatus {
	status := VoiceStatus{
		Rooms: s.rooms != nil,
		STT:   s.stt != nil,
		TTS:   s.tts != nil,
		LLM:   s.scenarios != nil,
	}
	status.Ready = status.Rooms && status.STT && status.TTS && status.LLM
	return status
}

// CreateRoom provisions a WebRTC room, mints a client token, and asks the
// bot runner to join with an owner token. The bot launch runs in the
// background; a launch failure is logged, never surfaced to the client,
// matching how the room outlives any single bot attempt.
func (s *VoiceService) CreateRoom(ctx context.Context, mode string) (*RoomGrant, error) {
	sessionMode, err := entities.ParseSessionMode(mode)
	if err != nil {
		return nil, err
	}
	if s.rooms == nil {
		return nil, ErrVoiceNotConfigured
	}

	room, err := s.rooms.CreateRoom(ctx)
	if err != nil {
		return nil, err
	}

	clientToken, err := s.rooms.CreateToken(ctx, room.Name, false)
	if err != nil {
		return nil, err
	}

	if s.bot != nil {
		botToken, err := s.rooms.CreateToken(ctx, room.Name, true)
		if err != nil {
			return nil, err
		}
		go func() {
			if err := s.bot.LaunchBot(context.Background(), room.URL, botToken, sessionMode); err != nil {
				s.logger.Error("bot launch failed",
					zap.String("room", room.Name),
					zap.Error(err))
			}
		}()
	}

	return &RoomGrant{
		RoomURL: room.URL,
		Token:   clientToken,
		Mode:    sessionMode,
	}, nil
}

// DeleteRoom tears down a room after the conversation ends.
func (s *VoiceService) DeleteRoom(ctx context.Context, roomName string) error {
	if s.rooms == nil {
		return ErrVoiceNotConfigured
	}
	return s.rooms.DeleteRoom(ctx, roomName)
}

// Transcribe recognizes one audio clip for pronunciation practice.
func (s *VoiceService) Transcribe(ctx context.Context, audio []byte, config repositories.AudioConfig) (repositories.Transcription, error) {
	if s.stt == nil {
		return repositories.Transcription{}, ErrVoiceNotConfigured
	}
	return s.stt.TranscribeAudio(ctx, audio, config)
}

// Speak synthesizes a reference pronunciation for the given text.
func (s *VoiceService) Speak(ctx context.Context, text string) ([]byte, string, error) {
	if s.tts == nil {
		return nil, "", ErrVoiceNotConfigured
	}
	return s.tts.SynthesizeSpeech(ctx, text)
}

// Scenario drafts a practice scenario for the given mode and topic.
func (s *VoiceService) Scenario(ctx context.Context, mode, topic string) (*repositories.Scenario, error) {
	sessionMode, err := entities.ParseSessionMode(mode)
	if err != nil {
		return nil, err
	}
	if s.scenarios == nil {
		return nil, ErrVoiceNotConfigured
	}
	return s.scenarios.GenerateScenario(ctx, sessionMode, topic)
}
