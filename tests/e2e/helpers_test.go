//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pawtrail/petmatch-backend/internal/adapter/memory"
	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/domain"
	"github.com/pawtrail/petmatch-backend/internal/service/intake"
	"github.com/pawtrail/petmatch-backend/internal/service/matching"
	"github.com/pawtrail/petmatch-backend/internal/service/notify"
	"github.com/pawtrail/petmatch-backend/internal/service/sweep"
)

// ---------------------------------------------------------------------------
// In-process pipeline harness: intake, matching, notify, sweep wired over the
// memory stores with a deterministic embedder and a recording messenger.
// ---------------------------------------------------------------------------

type sentMessage struct {
	ChatID  int64
	Text    string
	Actions []domain.Action
}

// recordingMessenger collects every outbound message so tests can assert on
// the whole conversation, intake prompts and match notifications alike.
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *recordingMessenger) Send(ctx context.Context, chatID int64, text string, actions []domain.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text, Actions: actions})
	return nil
}

func (m *recordingMessenger) SendReplyKeyboard(ctx context.Context, chatID int64, text string, buttons []string) error {
	return m.Send(ctx, chatID, text, nil)
}

func (m *recordingMessenger) SendRemoveKeyboard(ctx context.Context, chatID int64, text string) error {
	return m.Send(ctx, chatID, text, nil)
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// sentTo returns messages delivered to a chat starting at offset since.
func (m *recordingMessenger) sentTo(chatID int64, since int) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []sentMessage
	for _, msg := range m.sent[since:] {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	return out
}

type fileStore struct {
	files map[string][]byte
}

func (f *fileStore) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	data, ok := f.files[fileID]
	if !ok {
		return nil, fmt.Errorf("unknown file %q", fileID)
	}
	return data, nil
}

// widthEmbedder maps an image to a fixed vector keyed by its pixel width.
// Photos in these tests are generated with distinct widths, so each photo
// gets a known, exactly-representable embedding.
type widthEmbedder struct {
	vectors map[int][]float32
}

func (e *widthEmbedder) Embed(ctx context.Context, img image.Image) ([]float32, error) {
	vec, ok := e.vectors[img.Bounds().Dx()]
	if !ok {
		return nil, fmt.Errorf("no vector for width %d", img.Bounds().Dx())
	}
	return vec, nil
}

type pipeline struct {
	intake   *intake.Service
	sweeper  *sweep.Service
	users    *memory.UserStore
	reports  *memory.ReportStore
	ledger   *memory.NotificationStore
	msgr     *recordingMessenger
	files    *fileStore
	embedder *widthEmbedder
}

func setupPipeline(t *testing.T) *pipeline {
	t.Helper()

	p := &pipeline{
		users:   memory.NewUserStore(),
		reports: memory.NewReportStore(),
		ledger:  memory.NewNotificationStore(),
		msgr:    &recordingMessenger{},
		files:   &fileStore{files: map[string][]byte{}},
		embedder: &widthEmbedder{vectors: map[int][]float32{
			3: {3, 4},
			4: {4, 3},
			5: {1, 0},
			6: {0, 1},
		}},
	}

	cfg := config.MatchingConfig{
		RecencyWindow:          720 * time.Hour,
		ComparabilityThreshold: 0.75,
		NotificationThreshold:  0.85,
	}

	logger := slog.Default()
	tx := memory.NopTxManager{}

	p.intake = intake.NewService(logger, memory.NewSessionStore(), p.users, p.reports, tx, p.msgr, p.files)
	evaluator := matching.NewService(logger, p.reports, p.embedder, cfg)
	notifier := notify.NewService(logger, p.ledger, p.reports, p.users, tx, p.msgr, cfg)
	p.sweeper = sweep.NewService(logger, p.reports, evaluator, notifier, cfg)
	return p
}

// addPhoto registers photo bytes of the given width under a file id. The
// width selects the embedding the fake embedder will return for it.
func (p *pipeline) addPhoto(t *testing.T, fileID string, width int) {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, 8))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	p.files.files[fileID] = buf.Bytes()
}

// fileReport walks one chat through the whole intake conversation and leaves
// a stored, active report behind.
func (p *pipeline) fileReport(t *testing.T, chatID int64, kindButton, species, city, fileID string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, p.intake.HandleText(ctx, chatID, "/start"))
	require.NoError(t, p.intake.HandleText(ctx, chatID, kindButton))
	require.NoError(t, p.intake.HandlePhoto(ctx, chatID, fileID))
	require.NoError(t, p.intake.HandleText(ctx, chatID, species))
	require.NoError(t, p.intake.HandleText(ctx, chatID, "unknown"))
	require.NoError(t, p.intake.HandleCallback(ctx, chatID, "gender:unknown"))
	require.NoError(t, p.intake.HandleCallback(ctx, chatID, "size:medium"))
	require.NoError(t, p.intake.HandleCallback(ctx, chatID, "coat:short"))
	require.NoError(t, p.intake.HandleText(ctx, chatID, city))
	require.NoError(t, p.intake.HandleText(ctx, chatID, "/skip"))
}

func (p *pipeline) userID(t *testing.T, chatID int64) string {
	t.Helper()

	u, err := p.users.GetByChatID(context.Background(), chatID)
	require.NoError(t, err)
	return u.ID.String()
}
