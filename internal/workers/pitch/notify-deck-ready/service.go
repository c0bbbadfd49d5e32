package notifydeckready

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	awsclients "pitchcraft/internal/common/aws"
	commonerrors "pitchcraft/internal/common/errors"
	"pitchcraft/internal/common/logger"
)

// ServiceDependencies carries the delivery clients. Either may be nil, which
// disables that channel.
type ServiceDependencies struct {
	Email  awsclients.EmailSender
	Topic  awsclients.TopicPublisher
	Logger logger.Logger
}

type Service struct {
	config *Config
	email  awsclients.EmailSender
	topic  awsclients.TopicPublisher
	logger logger.Logger
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		email:  deps.Email,
		topic:  deps.Topic,
		logger: deps.Logger,
		now:    time.Now,
	}
}

// deckEvent is the SNS message body.
type deckEvent struct {
	Event          string `json:"event"`
	NotificationID string `json:"notificationId"`
	DeckID         string `json:"deckId"`
	CompanyName    string `json:"companyName"`
	SlideCount     int    `json:"slideCount"`
	Tier           string `json:"tier"`
	URL            string `json:"url"`
}

// Execute delivers on every enabled channel. A partial failure still counts
// as sent; when every attempted channel fails the output has status failed
// and a retryable error is returned.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		SentAt:         s.now().UTC(),
	}

	var failures []string
	var lastErr error
	attempted := 0

	if s.emailActive() && input.RecipientEmail != "" {
		attempted++
		if err := s.sendEmail(ctx, input); err != nil {
			failures = append(failures, "email")
			lastErr = commonerrors.NewNotificationSendFailedError("email", err)
			s.logger.Warn("deck email failed", map[string]interface{}{
				"deckId": input.DeckID,
				"error":  err.Error(),
			})
		} else {
			out.Channels = append(out.Channels, "email")
		}
	}

	if s.topicActive() {
		attempted++
		if err := s.publish(ctx, input, out.NotificationID); err != nil {
			failures = append(failures, "topic")
			lastErr = commonerrors.NewNotificationSendFailedError("topic", err)
			s.logger.Warn("deck event publish failed", map[string]interface{}{
				"deckId": input.DeckID,
				"error":  err.Error(),
			})
		} else {
			out.Channels = append(out.Channels, "topic")
		}
	}

	switch {
	case attempted == 0:
		return out, nil
	case len(out.Channels) == 0:
		out.Status = StatusFailed
		return out, lastErr
	}

	out.Status = StatusSent
	s.logger.Info("deck notification sent", map[string]interface{}{
		"deckId":         input.DeckID,
		"notificationId": out.NotificationID,
		"channels":       strings.Join(out.Channels, ","),
		"failed":         strings.Join(failures, ","),
	})
	return out, nil
}

func (s *Service) emailActive() bool {
	return s.config.EmailEnabled && s.email != nil
}

func (s *Service) topicActive() bool {
	return s.config.TopicEnabled && s.config.TopicARN != "" && s.topic != nil
}

func (s *Service) deckURL(deckID string) string {
	return strings.TrimRight(s.config.DeckBaseURL, "/") + "/" + deckID
}

func subject(input *Input) string {
	name := input.CompanyName
	if name == "" {
		name = "your company"
	}
	return fmt.Sprintf("Your pitch deck for %s is ready", name)
}

func (s *Service) emailBody(input *Input) string {
	var b strings.Builder
	b.WriteString("Your investor presentation has been generated.\n\n")
	fmt.Fprintf(&b, "Company: %s\n", input.CompanyName)
	fmt.Fprintf(&b, "Slides: %d\n", input.SlideCount)
	fmt.Fprintf(&b, "Quality: %s\n\n", input.Tier)
	fmt.Fprintf(&b, "View it at %s\n", s.deckURL(input.DeckID))
	return b.String()
}

func (s *Service) sendEmail(ctx context.Context, input *Input) error {
	_, err := s.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{input.RecipientEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject(input)), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(s.emailBody(input)), Charset: aws.String("UTF-8")},
			},
		},
	})
	return err
}

func (s *Service) publish(ctx context.Context, input *Input, notificationID string) error {
	body, err := json.Marshal(deckEvent{
		Event:          "deck.ready",
		NotificationID: notificationID,
		DeckID:         input.DeckID,
		CompanyName:    input.CompanyName,
		SlideCount:     input.SlideCount,
		Tier:           string(input.Tier),
		URL:            s.deckURL(input.DeckID),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = s.topic.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.config.TopicARN),
		Subject:  aws.String(subject(input)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"tier": {DataType: aws.String("String"), StringValue: aws.String(string(input.Tier))},
		},
	})
	return err
}
