package notifydeckready

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commonerrors "pitchcraft/internal/common/errors"
	"pitchcraft/internal/common/logger"
	"pitchcraft/internal/models"
)

// ==========================
// Mock AWS Clients
// ==========================

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type MockTopicPublisher struct {
	mock.Mock
}

func (m *MockTopicPublisher) Publish(ctx context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createValidConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		EmailEnabled: true,
		FromEmail:    "decks@pitchcraft.example",
		TopicEnabled: true,
		TopicARN:     "arn:aws:sns:us-east-1:123456789012:deck-ready",
		DeckBaseURL:  "https://pitchcraft.example/decks/",
	}
}

func createValidInput() *Input {
	return &Input{
		DeckID:         "deck-42",
		CompanyName:    "Acme Robotics",
		RecipientEmail: "founder@acme.example",
		SlideCount:     12,
		Tier:           models.TierGenerative,
	}
}

func createTestHandler(t *testing.T, cfg *Config, email *MockEmailSender, topic *MockTopicPublisher) *Handler {
	deps := ServiceDependencies{Logger: logger.NewTestLogger(t)}
	if email != nil {
		deps.Email = email
	}
	if topic != nil {
		deps.Topic = topic
	}
	h, err := NewHandler(cfg, deps)
	require.NoError(t, err)
	return h
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "pitch-deck-generation",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout must be positive"},
		{"email without sender", func(c *Config) { c.FromEmail = "" }, "from_email is required"},
		{"topic without arn", func(c *Config) { c.TopicARN = "" }, "topic arn is required"},
		{"disabled channels need nothing", func(c *Config) {
			*c = Config{Timeout: time.Second}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_BothChannels(t *testing.T) {
	email := new(MockEmailSender)
	topic := new(MockTopicPublisher)

	email.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "decks@pitchcraft.example" &&
			in.Destination.ToAddresses[0] == "founder@acme.example" &&
			aws.ToString(in.Message.Subject.Data) == "Your pitch deck for Acme Robotics is ready"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil)

	var published *sns.PublishInput
	topic.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{MessageId: aws.String("p-1")}, nil)

	output, err := createTestHandler(t, createValidConfig(), email, topic).
		Execute(context.Background(), createValidInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{"email", "topic"}, output.Channels)
	assert.NotEmpty(t, output.NotificationID)
	assert.False(t, output.SentAt.IsZero())

	require.NotNil(t, published)
	var event deckEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(published.Message)), &event))
	assert.Equal(t, "deck.ready", event.Event)
	assert.Equal(t, output.NotificationID, event.NotificationID)
	assert.Equal(t, "https://pitchcraft.example/decks/deck-42", event.URL)
	assert.Equal(t, "generative", aws.ToString(published.MessageAttributes["tier"].StringValue))

	email.AssertExpectations(t)
	topic.AssertExpectations(t)
}

func TestHandler_Execute_EmailBodyLinksDeck(t *testing.T) {
	email := new(MockEmailSender)
	var sent *ses.SendEmailInput
	email.On("SendEmail", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*ses.SendEmailInput) }).
		Return(&ses.SendEmailOutput{}, nil)

	cfg := createValidConfig()
	cfg.TopicEnabled = false

	_, err := createTestHandler(t, cfg, email, nil).Execute(context.Background(), createValidInput())
	require.NoError(t, err)

	body := aws.ToString(sent.Message.Body.Text.Data)
	assert.Contains(t, body, "Slides: 12")
	assert.Contains(t, body, "View it at https://pitchcraft.example/decks/deck-42")
}

func TestHandler_Execute_NoRecipientSkipsEmail(t *testing.T) {
	email := new(MockEmailSender)
	topic := new(MockTopicPublisher)
	topic.On("Publish", mock.Anything, mock.Anything).Return(&sns.PublishOutput{}, nil)

	input := createValidInput()
	input.RecipientEmail = ""

	output, err := createTestHandler(t, createValidConfig(), email, topic).Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{"topic"}, output.Channels)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestHandler_Execute_AllChannelsDisabled(t *testing.T) {
	cfg := &Config{Timeout: time.Second}

	output, err := createTestHandler(t, cfg, nil, nil).Execute(context.Background(), createValidInput())
	require.NoError(t, err)

	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, output.Channels)
}

func TestHandler_Execute_PartialFailureStillSent(t *testing.T) {
	email := new(MockEmailSender)
	topic := new(MockTopicPublisher)
	email.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("MessageRejected"))
	topic.On("Publish", mock.Anything, mock.Anything).Return(&sns.PublishOutput{}, nil)

	output, err := createTestHandler(t, createValidConfig(), email, topic).
		Execute(context.Background(), createValidInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{"topic"}, output.Channels)
}

func TestHandler_Execute_AllChannelsFailed(t *testing.T) {
	email := new(MockEmailSender)
	topic := new(MockTopicPublisher)
	email.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))
	topic.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	output, err := createTestHandler(t, createValidConfig(), email, topic).
		Execute(context.Background(), createValidInput())
	require.Error(t, err)

	assert.Equal(t, StatusFailed, output.Status)
	stdErr, ok := commonerrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"missing deck id", func(in *Input) { in.DeckID = "" }},
		{"malformed email", func(in *Input) { in.RecipientEmail = "not-an-email" }},
		{"negative slide count", func(in *Input) { in.SlideCount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := createValidInput()
			tt.mutate(input)

			_, err := createTestHandler(t, &Config{Timeout: time.Second}, nil, nil).
				Execute(context.Background(), input)
			require.Error(t, err)

			stdErr, ok := commonerrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, commonerrors.ErrCodeInvalidInput, stdErr.Code)
		})
	}
}

func TestParseInput(t *testing.T) {
	job := createMockJob(7, map[string]interface{}{
		"deckId":      "deck-7",
		"companyName": "Acme",
		"slideCount":  9,
		"tier":        "structured",
	})

	input, err := parseInput(job)
	require.NoError(t, err)
	assert.Equal(t, "deck-7", input.DeckID)
	assert.Equal(t, 9, input.SlideCount)
	assert.Equal(t, models.TierStructured, input.Tier)

	bad := createMockJob(8, nil)
	bad.Variables = "{not json"
	_, err = parseInput(bad)
	assert.Error(t, err)
}

func TestNewHandler_InvalidConfig(t *testing.T) {
	_, err := NewHandler(&Config{}, ServiceDependencies{})
	assert.Error(t, err)
}
