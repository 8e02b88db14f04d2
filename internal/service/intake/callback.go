package intake

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// HandleCallback processes an inline button press. Attribute choices advance
// the intake session; reveal/dismiss act on match notifications.
func (s *Service) HandleCallback(ctx context.Context, chatID int64, data string) error {
	prefix, value, _ := strings.Cut(data, ":")

	switch prefix {
	case "gender":
		return s.handleGender(ctx, chatID, value)
	case "size":
		return s.handleSize(ctx, chatID, value)
	case "coat":
		return s.handleCoat(ctx, chatID, value)
	case "reveal":
		return s.handleReveal(ctx, chatID, value)
	case "dismiss":
		return s.messenger.Send(ctx, chatID, textDismissed, nil)
	case "cancel":
		return s.cancel(ctx, chatID)
	}

	s.log.Warn("unrecognized callback", "chat_id", chatID, "data", data)
	return nil
}

func (s *Service) handleGender(ctx context.Context, chatID int64, value string) error {
	session, err := s.sessionInState(ctx, chatID, domain.IntakeStateGender)
	if err != nil || session == nil {
		return err
	}

	gender := domain.Gender(value)
	if !gender.IsValid() {
		return s.messenger.Send(ctx, chatID, textUseButtons, genderActions())
	}

	session.Draft.Gender = gender
	if err := s.put(ctx, session, domain.IntakeStateSize); err != nil {
		return err
	}
	return s.messenger.Send(ctx, chatID, textAskSize, sizeActions())
}

func (s *Service) handleSize(ctx context.Context, chatID int64, value string) error {
	session, err := s.sessionInState(ctx, chatID, domain.IntakeStateSize)
	if err != nil || session == nil {
		return err
	}

	size := domain.Size(value)
	if !size.IsValid() {
		return s.messenger.Send(ctx, chatID, textUseButtons, sizeActions())
	}

	session.Draft.Size = size
	if err := s.put(ctx, session, domain.IntakeStateCoat); err != nil {
		return err
	}
	return s.messenger.Send(ctx, chatID, textAskCoat, coatActions())
}

func (s *Service) handleCoat(ctx context.Context, chatID int64, value string) error {
	session, err := s.sessionInState(ctx, chatID, domain.IntakeStateCoat)
	if err != nil || session == nil {
		return err
	}

	coat := domain.Coat(value)
	if !coat.IsValid() {
		return s.messenger.Send(ctx, chatID, textUseButtons, coatActions())
	}

	session.Draft.Coat = coat
	return s.advance(ctx, session, domain.IntakeStateCity, textAskCity)
}

// handleReveal answers a "show contacts" press with a direct link to the
// other party's chat.
func (s *Service) handleReveal(ctx context.Context, chatID int64, value string) error {
	userID, err := uuid.Parse(value)
	if err != nil {
		s.log.Warn("malformed reveal callback", "chat_id", chatID, "value", value)
		return s.messenger.Send(ctx, chatID, textContactUnknown, nil)
	}

	other, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.messenger.Send(ctx, chatID, textContactUnknown, nil)
		}
		return fmt.Errorf("get user %s for reveal: %w", userID, err)
	}

	link := "tg://user?id=" + strconv.FormatInt(other.ChatID, 10)
	return s.messenger.Send(ctx, chatID, textContactPrefix+link, nil)
}

// sessionInState loads the chat's session if it is in the expected state.
// A missing session or a stale button press resolves to a user hint and a
// nil session, not an error.
func (s *Service) sessionInState(ctx context.Context, chatID int64, state domain.IntakeState) (*domain.IntakeSession, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.messenger.Send(ctx, chatID, textNoSession, nil)
		}
		return nil, fmt.Errorf("get session for chat %d: %w", chatID, err)
	}
	if session.State != state {
		return nil, nil
	}
	return session, nil
}

func genderActions() []domain.Action {
	return []domain.Action{
		{Label: "Male", Data: "gender:" + domain.GenderMale.String()},
		{Label: "Female", Data: "gender:" + domain.GenderFemale.String()},
		{Label: "Not sure", Data: "gender:" + domain.GenderUnknown.String()},
	}
}

func sizeActions() []domain.Action {
	return []domain.Action{
		{Label: "Small", Data: "size:" + domain.SizeSmall.String()},
		{Label: "Medium", Data: "size:" + domain.SizeMedium.String()},
		{Label: "Large", Data: "size:" + domain.SizeLarge.String()},
	}
}

func coatActions() []domain.Action {
	return []domain.Action{
		{Label: "Short", Data: "coat:" + domain.CoatShort.String()},
		{Label: "Long", Data: "coat:" + domain.CoatLong.String()},
		{Label: "Hairless", Data: "coat:" + domain.CoatNone.String()},
	}
}
