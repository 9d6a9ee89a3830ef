package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"facecrop/internal/domain/entity"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func sampleReport() *entity.BatchReport {
	return &entity.BatchReport{
		SourceFolder:      "/photos",
		DestFolder:        "/faces",
		FilesProcessed:    10,
		FilesFailed:       1,
		FacesFound:        14,
		OutputsWritten:    14,
		DuplicatesRemoved: 3,
		Elapsed:           1500 * time.Millisecond,
	}
}

func TestNotifier_SendsSummary(t *testing.T) {
	fs := &fakeSender{}
	n := &Notifier{api: fs, chatID: 42}

	require.NoError(t, n.Notify(context.Background(), sampleReport()))
	require.Len(t, fs.sent, 1)
	require.Equal(t, int64(42), fs.sent[0].ChatID)
	require.True(t, strings.HasPrefix(fs.sent[0].Text, msgHeader))
	require.Contains(t, fs.sent[0].Text, "Files processed: 10, failed: 1")
	require.Contains(t, fs.sent[0].Text, "Duplicates removed: 3")
	require.Contains(t, fs.sent[0].Text, "Elapsed: 1.5s")
}

func TestNotifier_Interrupted(t *testing.T) {
	r := sampleReport()
	r.Interrupted = true
	text := formatReport(r)
	require.True(t, strings.HasPrefix(text, msgInterrupted))
	require.Contains(t, text, "Interrupted before completion")
}

func TestNotifier_SendError(t *testing.T) {
	n := &Notifier{api: &fakeSender{err: errors.New("network down")}, chatID: 1}
	err := n.Notify(context.Background(), sampleReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "network down")
}
