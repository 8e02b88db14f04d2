package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
	"github.com/pawtrail/petmatch-backend/internal/imaging"
)

// HandleText processes a plain text message from a chat and advances its
// intake session. Unknown chats are pointed at /start.
func (s *Service) HandleText(ctx context.Context, chatID int64, text string) error {
	text = strings.TrimSpace(text)

	switch text {
	case "/start":
		return s.start(ctx, chatID)
	case "/cancel":
		return s.cancel(ctx, chatID)
	}

	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.messenger.Send(ctx, chatID, textNoSession, nil)
		}
		return fmt.Errorf("get session for chat %d: %w", chatID, err)
	}

	switch session.State {
	case domain.IntakeStateKind:
		return s.handleKind(ctx, session, text)
	case domain.IntakeStatePhoto:
		return s.messenger.Send(ctx, chatID, textPhotoExpected, nil)
	case domain.IntakeStateSpecies:
		session.Draft.Species = strings.ToLower(text)
		return s.advance(ctx, session, domain.IntakeStateBreed, textAskBreed)
	case domain.IntakeStateBreed:
		session.Draft.Breed = text
		if err := s.put(ctx, session, domain.IntakeStateGender); err != nil {
			return err
		}
		return s.messenger.Send(ctx, chatID, textAskGender, genderActions())
	case domain.IntakeStateGender, domain.IntakeStateSize, domain.IntakeStateCoat:
		return s.messenger.Send(ctx, chatID, textUseButtons, nil)
	case domain.IntakeStateCity:
		session.Draft.City = strings.ToLower(text)
		return s.advance(ctx, session, domain.IntakeStateChip, textAskChip)
	case domain.IntakeStateChip:
		if text != "/skip" {
			session.Draft.ChipNumber = &text
		}
		return s.complete(ctx, session)
	}

	return fmt.Errorf("chat %d in unknown intake state %q", chatID, session.State)
}

// HandlePhoto processes an incoming photo. Only meaningful in the photo
// state; elsewhere the user is nudged back to the current question.
func (s *Service) HandlePhoto(ctx context.Context, chatID int64, fileID string) error {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.messenger.Send(ctx, chatID, textNoSession, nil)
		}
		return fmt.Errorf("get session for chat %d: %w", chatID, err)
	}
	if session.State != domain.IntakeStatePhoto {
		return s.messenger.Send(ctx, chatID, pendingPrompt(session.State), nil)
	}

	data, err := s.files.DownloadFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("download photo for chat %d: %w", chatID, err)
	}
	if _, err := imaging.Decode(data); err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			// keep the session so the user can just send another photo
			return s.messenger.Send(ctx, chatID, textPhotoUnusable, nil)
		}
		return fmt.Errorf("validate photo for chat %d: %w", chatID, err)
	}

	session.Draft.Photo = data
	return s.advance(ctx, session, domain.IntakeStateSpecies, textAskSpecies)
}

func (s *Service) start(ctx context.Context, chatID int64) error {
	session := &domain.IntakeSession{
		ChatID: chatID,
		State:  domain.IntakeStateKind,
	}
	if err := s.put(ctx, session, domain.IntakeStateKind); err != nil {
		return err
	}
	return s.messenger.SendReplyKeyboard(ctx, chatID, textGreeting, []string{buttonLost, buttonFound})
}

func (s *Service) cancel(ctx context.Context, chatID int64) error {
	if err := s.sessions.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("delete session for chat %d: %w", chatID, err)
	}
	return s.messenger.SendRemoveKeyboard(ctx, chatID, textCancelled)
}

func (s *Service) handleKind(ctx context.Context, session *domain.IntakeSession, text string) error {
	var kind domain.ReportKind
	switch text {
	case buttonLost, domain.ReportKindLost.String():
		kind = domain.ReportKindLost
	case buttonFound, domain.ReportKindFound.String():
		kind = domain.ReportKindFound
	default:
		return s.messenger.SendReplyKeyboard(ctx, session.ChatID, textChooseKind, []string{buttonLost, buttonFound})
	}

	session.Draft.Kind = kind
	if err := s.put(ctx, session, domain.IntakeStatePhoto); err != nil {
		return err
	}
	return s.messenger.SendRemoveKeyboard(ctx, session.ChatID, textAskPhoto)
}

// complete persists the finished draft as an active report and clears the
// session, in one transaction. The confirmation is only sent after commit;
// a failed commit keeps the session so the last answer can be resent.
func (s *Service) complete(ctx context.Context, session *domain.IntakeSession) error {
	draft := session.Draft

	report := domain.Report{
		ID:         uuid.New(),
		Kind:       draft.Kind,
		Photo:      draft.Photo,
		Species:    draft.Species,
		Breed:      draft.Breed,
		Gender:     draft.Gender,
		Size:       draft.Size,
		Coat:       draft.Coat,
		City:       draft.City,
		ChipNumber: draft.ChipNumber,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := report.Validate(); err != nil {
		// A session can only reach the last state with every required field
		// filled, so this means the stored draft is corrupt. Start over.
		s.log.Error("draft failed validation", "chat_id", session.ChatID, "error", err)
		if delErr := s.sessions.Delete(ctx, session.ChatID); delErr != nil {
			return fmt.Errorf("clear corrupt session for chat %d: %w", session.ChatID, delErr)
		}
		return s.messenger.SendReplyKeyboard(ctx, session.ChatID, textSubmitFailed, []string{buttonLost, buttonFound})
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetOrCreateByChatID(ctx, session.ChatID)
		if err != nil {
			return fmt.Errorf("get or create user for chat %d: %w", session.ChatID, err)
		}

		report.UserID = user.ID
		if _, err := s.reports.Create(ctx, &report); err != nil {
			return fmt.Errorf("create report for chat %d: %w", session.ChatID, err)
		}

		return s.sessions.Delete(ctx, session.ChatID)
	})
	if err != nil {
		if sendErr := s.messenger.Send(ctx, session.ChatID, textSubmitFailed, nil); sendErr != nil {
			s.log.Error("failed to report submit error to user", "chat_id", session.ChatID, "error", sendErr)
		}
		return err
	}

	s.log.Info("report submitted", "chat_id", session.ChatID, "kind", draft.Kind, "city", draft.City)
	return s.messenger.SendReplyKeyboard(ctx, session.ChatID, textSuccess, []string{buttonLost, buttonFound})
}

func (s *Service) advance(ctx context.Context, session *domain.IntakeSession, next domain.IntakeState, prompt string) error {
	if err := s.put(ctx, session, next); err != nil {
		return err
	}
	return s.messenger.Send(ctx, session.ChatID, prompt, nil)
}

func (s *Service) put(ctx context.Context, session *domain.IntakeSession, state domain.IntakeState) error {
	session.State = state
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Put(ctx, session); err != nil {
		return fmt.Errorf("save session for chat %d: %w", session.ChatID, err)
	}
	return nil
}
