package intake

import "github.com/pawtrail/petmatch-backend/internal/domain"

const (
	textGreeting       = "Hi! I match lost and found pet reports by photo. What happened?"
	textChooseKind     = "Please choose one of the options below."
	textAskPhoto       = "Send one clear photo of the pet."
	textPhotoExpected  = "I need a photo to continue. Please send one as an image."
	textPhotoUnusable  = "I could not read that image. Please send a different photo."
	textAskSpecies     = "Got it. What kind of animal is it? (dog, cat, ...)"
	textAskBreed       = "What breed is it? Write your best guess."
	textAskGender      = "What is the animal's gender?"
	textAskSize        = "What size is it?"
	textAskCoat        = "What is its coat like?"
	textUseButtons     = "Please answer with one of the buttons above."
	textAskCity        = "Which city was it lost or found in?"
	textAskChip        = "If you know a microchip number, send it now. Otherwise send /skip."
	textSuccess        = "Thank you! Your report is saved. I will message you as soon as a likely match appears."
	textCancelled      = "Report cancelled. Send /start to begin a new one."
	textNoSession      = "Send /start to begin a new report."
	textSubmitFailed   = "Something went wrong while saving your report. Please try again."
	textDismissed      = "Okay, I will not show this match again."
	textContactPrefix  = "You can reach the other party here: "
	textContactUnknown = "Sorry, I could not find the other party's contact."

	buttonLost  = "I lost a pet"
	buttonFound = "I found a pet"
)

// pendingPrompt restates the question a chat is currently being asked, for
// replies that arrived in the wrong form.
func pendingPrompt(state domain.IntakeState) string {
	switch state {
	case domain.IntakeStateKind:
		return textChooseKind
	case domain.IntakeStateSpecies:
		return textAskSpecies
	case domain.IntakeStateBreed:
		return textAskBreed
	case domain.IntakeStateCity:
		return textAskCity
	case domain.IntakeStateChip:
		return textAskChip
	default:
		return textUseButtons
	}
}
