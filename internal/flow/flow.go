package flow

// State identifies one step of a multi-step conversation. The original dialog
// drivers keyed these by bare integers; here they are an enumerated type with
// explicit per-flow sequences.
type State int

const (
	StateNone State = iota

	RegisterName
	RegisterPhone
	RegisterConfirmPhone
	RegisterVerifyCode
	RegisterEmail
	RegisterConfirmEmail
	RegisterPassword

	LoginEmail
	LoginPassword

	OfferCategory
	OfferTitle
	OfferDescription
	OfferContacts

	RequestCategory
	RequestDescription
	RequestBudget
	RequestDeadline
	RequestContacts

	ResponseChooseListing
	ResponseMessage

	FeedbackRating
	FeedbackComment

	// StateEnd is the terminal sentinel: the flow is over and session data
	// is cleared.
	StateEnd
)

var stateNames = map[State]string{
	StateNone:             "none",
	RegisterName:          "register_name",
	RegisterPhone:         "register_phone",
	RegisterConfirmPhone:  "register_confirm_phone",
	RegisterVerifyCode:    "register_verify_code",
	RegisterEmail:         "register_email",
	RegisterConfirmEmail:  "register_confirm_email",
	RegisterPassword:      "register_password",
	LoginEmail:            "login_email",
	LoginPassword:         "login_password",
	OfferCategory:         "offer_category",
	OfferTitle:            "offer_title",
	OfferDescription:      "offer_description",
	OfferContacts:         "offer_contacts",
	RequestCategory:       "request_category",
	RequestDescription:    "request_description",
	RequestBudget:         "request_budget",
	RequestDeadline:       "request_deadline",
	RequestContacts:       "request_contacts",
	ResponseChooseListing: "response_choose_listing",
	ResponseMessage:       "response_message",
	FeedbackRating:        "feedback_rating",
	FeedbackComment:       "feedback_comment",
	StateEnd:              "end",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Per-flow step sequences, in user-visible order.
var (
	Registration       = []State{RegisterName, RegisterPhone, RegisterConfirmPhone, RegisterVerifyCode, RegisterEmail, RegisterConfirmEmail, RegisterPassword}
	Login              = []State{LoginEmail, LoginPassword}
	OfferCreation      = []State{OfferCategory, OfferTitle, OfferDescription, OfferContacts}
	RequestCreation    = []State{RequestCategory, RequestDescription, RequestBudget, RequestDeadline, RequestContacts}
	ResponseSubmission = []State{ResponseChooseListing, ResponseMessage}
	ReviewSubmission   = []State{FeedbackRating, FeedbackComment}
)

// Next returns the state following s within the given flow, or StateEnd when
// s is the last step (or not part of the flow at all).
func Next(flow []State, s State) State {
	for i, step := range flow {
		if step == s {
			if i+1 < len(flow) {
				return flow[i+1]
			}
			return StateEnd
		}
	}
	return StateEnd
}
