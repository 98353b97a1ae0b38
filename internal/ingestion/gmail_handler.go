package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailHandler fetches report attachments from a Gmail mailbox. HR teams
// commonly distribute the diagnostic PDFs by mail, so this saves the manual
// download step.
type GmailHandler struct {
	service    *gmail.Service
	uploadsDir string
	logger     *zap.Logger
}

// NewGmailHandler creates a new Gmail handler. The OAuth token is cached
// next to the credentials file as token.json.
func NewGmailHandler(ctx context.Context, credentialsPath, uploadsDir string, logger *zap.Logger) (*GmailHandler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if credentialsPath == "" {
		credentialsPath = "credentials.json"
	}

	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	tokenPath := filepath.Join(filepath.Dir(credentialsPath), "token.json")
	client, err := getClient(ctx, config, tokenPath)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service:    srv,
		uploadsDir: uploadsDir,
		logger:     logger,
	}, nil
}

// getClient retrieves a token, saves it, then returns the generated client.
func getClient(ctx context.Context, config *oauth2.Config, tokenPath string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenPath)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenPath, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// getTokenFromWeb requests a token interactively.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchAttachments downloads attachments of messages matching the subject
// into the uploads directory, renamed to the report naming convention.
func (gh *GmailHandler) FetchAttachments(subject string) error {
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}

	user := "me"
	query := fmt.Sprintf("subject:%s has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(r.Messages) == 0 {
		return fmt.Errorf("no messages found with subject: %s", subject)
	}

	for _, msg := range r.Messages {
		message, err := gh.service.Users.Messages.Get(user, msg.Id).Do()
		if err != nil {
			gh.logger.Warn("unable to retrieve message", zap.String("id", msg.Id), zap.Error(err))
			continue
		}

		senderName := extractSenderName(message)

		for _, part := range message.Payload.Parts {
			if part.Filename == "" || part.Body.AttachmentId == "" {
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Do()
			if err != nil {
				gh.logger.Warn("unable to retrieve attachment", zap.String("filename", part.Filename), zap.Error(err))
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				gh.logger.Warn("unable to decode attachment", zap.String("filename", part.Filename), zap.Error(err))
				continue
			}

			newFilename := conventionFilename(senderName, part.Filename)
			filePath := filepath.Join(gh.uploadsDir, newFilename)
			if err := os.WriteFile(filePath, data, 0644); err != nil {
				gh.logger.Warn("unable to write file", zap.String("path", filePath), zap.Error(err))
				continue
			}

			gh.logger.Info("downloaded attachment", zap.String("filename", newFilename))
		}
	}

	return nil
}

// conventionFilename renames a mailed attachment to the uploads naming
// convention so LoadReports can pair it with its leader. Survey workbooks
// keep their own name.
func conventionFilename(senderName, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.ToLower(strings.TrimSuffix(filename, ext))

	if strings.EqualFold(ext, ".xlsx") {
		return filename
	}

	switch {
	case strings.Contains(baseName, "leadership") || strings.Contains(baseName, "리더십"):
		return fmt.Sprintf("%s_leadership%s", senderName, ext)
	case strings.Contains(baseName, "oei") || strings.Contains(baseName, "조직"):
		return fmt.Sprintf("%s_oei%s", senderName, ext)
	default:
		return fmt.Sprintf("%s_%s", senderName, filename)
	}
}

// extractSenderName extracts the sender's name from email headers.
func extractSenderName(message *gmail.Message) string {
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			// Parse "Name <email@example.com>" format
			from := header.Value
			if idx := strings.Index(from, "<"); idx > 0 {
				name := strings.TrimSpace(from[:idx])
				name = strings.ReplaceAll(name, " ", "")
				return name
			}
			// If no name, use email prefix
			if idx := strings.Index(from, "@"); idx > 0 {
				return from[:idx]
			}
			return "Unknown"
		}
	}
	return "Unknown"
}
