package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vzaimoBack/internal/flow"
	"vzaimoBack/internal/models"
)

// Categories offered during intake, in keyboard order.
var Categories = []string{
	"programming", "design", "writing", "translation",
	"marketing", "consulting", "tutoring", "other",
}

// DialogService wires the conversational flows to the domain services. Each
// handler consumes one user message, validates it and either re-prompts in the
// same state or advances the flow.
type DialogService struct {
	Router       *flow.Router
	Store        flow.Store
	Users        *UserService
	Listings     *ListingService
	Applications *ApplicationService
	Ratings      *RatingService
}

func NewDialogService(
	store flow.Store,
	users *UserService,
	listings *ListingService,
	applications *ApplicationService,
	ratings *RatingService,
) *DialogService {
	s := &DialogService{
		Router:       flow.NewRouter(store),
		Store:        store,
		Users:        users,
		Listings:     listings,
		Applications: applications,
		Ratings:      ratings,
	}
	s.registerHandlers()
	return s
}

func (s *DialogService) registerHandlers() {
	r := s.Router

	r.Handle(flow.RegisterName, s.cancellable(s.handleRegisterName))
	r.Handle(flow.RegisterPhone, s.cancellable(s.handleRegisterPhone))
	r.Handle(flow.RegisterConfirmPhone, s.cancellable(s.handleRegisterConfirmPhone))
	r.Handle(flow.RegisterVerifyCode, s.cancellable(s.handleRegisterVerifyCode))
	r.Handle(flow.RegisterEmail, s.cancellable(s.handleRegisterEmail))
	r.Handle(flow.RegisterConfirmEmail, s.cancellable(s.handleRegisterConfirmEmail))
	r.Handle(flow.RegisterPassword, s.cancellable(s.handleRegisterPassword))

	r.Handle(flow.LoginEmail, s.cancellable(s.handleLoginEmail))
	r.Handle(flow.LoginPassword, s.cancellable(s.handleLoginPassword))

	r.Handle(flow.OfferCategory, s.cancellable(s.handleOfferCategory))
	r.Handle(flow.OfferTitle, s.cancellable(s.handleOfferTitle))
	r.Handle(flow.OfferDescription, s.cancellable(s.handleOfferDescription))
	r.Handle(flow.OfferContacts, s.cancellable(s.handleOfferContacts))

	r.Handle(flow.RequestCategory, s.cancellable(s.handleRequestCategory))
	r.Handle(flow.RequestDescription, s.cancellable(s.handleRequestDescription))
	r.Handle(flow.RequestBudget, s.cancellable(s.handleRequestBudget))
	r.Handle(flow.RequestDeadline, s.cancellable(s.handleRequestDeadline))
	r.Handle(flow.RequestContacts, s.cancellable(s.handleRequestContacts))

	r.Handle(flow.ResponseChooseListing, s.cancellable(s.handleResponseChooseListing))
	r.Handle(flow.ResponseMessage, s.cancellable(s.handleResponseMessage))

	r.Handle(flow.FeedbackRating, s.cancellable(s.handleFeedbackRating))
	r.Handle(flow.FeedbackComment, s.cancellable(s.handleFeedbackComment))
}

// cancellable aborts any flow on a cancel command before the state handler runs.
func (s *DialogService) cancellable(h flow.HandlerFunc) flow.HandlerFunc {
	return func(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
		text := strings.TrimSpace(strings.ToLower(ev.Text))
		if text == "/cancel" || text == "отмена" {
			return flow.Result{}, flow.ErrCancelled
		}
		return h(ctx, sess, ev)
	}
}

// Dispatch forwards one inbound message to the active flow.
func (s *DialogService) Dispatch(ctx context.Context, ev flow.Event) (flow.Result, error) {
	return s.Router.Dispatch(ctx, ev)
}

// Flow entry points.

func (s *DialogService) StartRegistration(ctx context.Context, userID int) (flow.Result, error) {
	return s.Router.Start(ctx, userID, flow.RegisterName, "Как вас зовут?", nil)
}

func (s *DialogService) StartLogin(ctx context.Context, userID int) (flow.Result, error) {
	return s.Router.Start(ctx, userID, flow.LoginEmail, "Введите email:", nil)
}

func (s *DialogService) StartOffer(ctx context.Context, userID int) (flow.Result, error) {
	return s.Router.Start(ctx, userID, flow.OfferCategory, "Выберите категорию:", Categories)
}

func (s *DialogService) StartRequest(ctx context.Context, userID int) (flow.Result, error) {
	return s.Router.Start(ctx, userID, flow.RequestCategory, "Выберите категорию:", Categories)
}

func (s *DialogService) StartResponse(ctx context.Context, userID int) (flow.Result, error) {
	return s.Router.Start(ctx, userID, flow.ResponseChooseListing, "Введите номер объявления:", nil)
}

// StartReview opens the feedback flow seeded with the user being reviewed.
func (s *DialogService) StartReview(ctx context.Context, userID, reviewedID int, listingID *int) (flow.Result, error) {
	res, err := s.Router.Start(ctx, userID, flow.FeedbackRating, "Оцените пользователя от 1 до 5:", []string{"1", "2", "3", "4", "5"})
	if err != nil {
		return flow.Result{}, err
	}
	sess, _, err := s.Store.Get(ctx, userID)
	if err != nil {
		return flow.Result{}, err
	}
	sess.Data["reviewed_id"] = strconv.Itoa(reviewedID)
	if listingID != nil {
		sess.Data["listing_id"] = strconv.Itoa(*listingID)
	}
	if err := s.Store.Save(ctx, sess); err != nil {
		return flow.Result{}, err
	}
	return res, nil
}

// Registration.

func (s *DialogService) handleRegisterName(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return flow.Result{Next: flow.RegisterName, Reply: "Имя не может быть пустым. Как вас зовут?"}, nil
	}
	sess.Data["name"] = name
	return flow.Result{Next: flow.RegisterPhone, Reply: "Введите номер телефона:"}, nil
}

func (s *DialogService) handleRegisterPhone(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	phone := strings.TrimSpace(ev.Text)
	if len(phone) < 5 {
		return flow.Result{Next: flow.RegisterPhone, Reply: "Некорректный номер. Введите номер телефона:"}, nil
	}
	sess.Data["phone"] = phone
	return flow.Result{
		Next:    flow.RegisterConfirmPhone,
		Reply:   fmt.Sprintf("Подтвердить номер %s?", phone),
		Options: []string{"Да", "Нет"},
	}, nil
}

func (s *DialogService) handleRegisterConfirmPhone(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	if !isYes(ev.Text) {
		return flow.Result{Next: flow.RegisterPhone, Reply: "Введите номер телефона:"}, nil
	}
	if err := s.Users.SendVerificationCode(ctx, sess.Data["phone"]); err != nil {
		return flow.Result{
			Next:  flow.RegisterPhone,
			Reply: "Не удалось отправить SMS. Проверьте номер и введите его ещё раз:",
		}, nil
	}
	return flow.Result{Next: flow.RegisterVerifyCode, Reply: "Введите код из SMS:"}, nil
}

func (s *DialogService) handleRegisterVerifyCode(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	err := s.Users.VerifyPhone(ctx, models.VerifyPhoneRequest{
		Phone: sess.Data["phone"],
		Code:  strings.TrimSpace(ev.Text),
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCode) {
			return flow.Result{Next: flow.RegisterVerifyCode, Reply: "Неверный код. Попробуйте ещё раз:"}, nil
		}
		return flow.Result{}, err
	}
	return flow.Result{Next: flow.RegisterEmail, Reply: "Введите email:"}, nil
}

func (s *DialogService) handleRegisterEmail(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	email := strings.TrimSpace(ev.Text)
	if !strings.Contains(email, "@") {
		return flow.Result{Next: flow.RegisterEmail, Reply: "Некорректный email. Введите email:"}, nil
	}
	sess.Data["email"] = email
	return flow.Result{
		Next:    flow.RegisterConfirmEmail,
		Reply:   fmt.Sprintf("Подтвердить email %s?", email),
		Options: []string{"Да", "Нет"},
	}, nil
}

func (s *DialogService) handleRegisterConfirmEmail(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	if !isYes(ev.Text) {
		return flow.Result{Next: flow.RegisterEmail, Reply: "Введите email:"}, nil
	}
	return flow.Result{Next: flow.RegisterPassword, Reply: "Придумайте пароль:"}, nil
}

func (s *DialogService) handleRegisterPassword(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	password := strings.TrimSpace(ev.Text)
	if len(password) < 6 {
		return flow.Result{Next: flow.RegisterPassword, Reply: "Пароль слишком короткий (минимум 6 символов). Придумайте пароль:"}, nil
	}

	_, err := s.Users.SignUp(ctx, models.SignUpRequest{
		Name:     sess.Data["name"],
		Phone:    sess.Data["phone"],
		Email:    sess.Data["email"],
		Password: password,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateEmail):
			return flow.Result{Next: flow.StateEnd, Reply: "Пользователь с таким email уже существует."}, nil
		case errors.Is(err, models.ErrDuplicatePhone):
			return flow.Result{Next: flow.StateEnd, Reply: "Пользователь с таким телефоном уже существует."}, nil
		}
		return flow.Result{}, err
	}
	return flow.Result{Next: flow.StateEnd, Reply: "Регистрация завершена!"}, nil
}

// Login.

func (s *DialogService) handleLoginEmail(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	email := strings.TrimSpace(ev.Text)
	if !strings.Contains(email, "@") {
		return flow.Result{Next: flow.LoginEmail, Reply: "Некорректный email. Введите email:"}, nil
	}
	sess.Data["email"] = email
	return flow.Result{Next: flow.LoginPassword, Reply: "Введите пароль:"}, nil
}

func (s *DialogService) handleLoginPassword(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	_, err := s.Users.SignIn(ctx, models.SignInRequest{
		Email:    sess.Data["email"],
		Password: ev.Text,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return flow.Result{Next: flow.StateEnd, Reply: "Неверный email или пароль."}, nil
		}
		return flow.Result{}, err
	}
	return flow.Result{Next: flow.StateEnd, Reply: "Вы вошли в систему!"}, nil
}

// Offer creation.

func (s *DialogService) handleOfferCategory(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	category, ok := matchCategory(ev.Text)
	if !ok {
		return flow.Result{Next: flow.OfferCategory, Reply: "Выберите категорию из списка:", Options: Categories}, nil
	}
	sess.Data["category"] = category
	return flow.Result{Next: flow.OfferTitle, Reply: "Введите заголовок предложения:"}, nil
}

func (s *DialogService) handleOfferTitle(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	title := strings.TrimSpace(ev.Text)
	if err := ValidateTitle(title); err != nil {
		return flow.Result{Next: flow.OfferTitle, Reply: validationReply(err)}, nil
	}
	sess.Data["title"] = title
	return flow.Result{Next: flow.OfferDescription, Reply: "Опишите, чем вы можете помочь:"}, nil
}

func (s *DialogService) handleOfferDescription(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	description := strings.TrimSpace(ev.Text)
	if err := ValidateDescription(description); err != nil {
		return flow.Result{Next: flow.OfferDescription, Reply: validationReply(err)}, nil
	}
	sess.Data["description"] = description
	return flow.Result{Next: flow.OfferContacts, Reply: "Укажите контакты для связи:"}, nil
}

func (s *DialogService) handleOfferContacts(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	contacts := strings.TrimSpace(ev.Text)
	if err := ValidateContacts(contacts); err != nil {
		return flow.Result{Next: flow.OfferContacts, Reply: validationReply(err)}, nil
	}

	listing, err := s.Listings.CreateListing(ctx, models.CreateListingRequest{
		UserID:      sess.UserID,
		Kind:        models.KindOffer,
		Category:    sess.Data["category"],
		Title:       sess.Data["title"],
		Description: sess.Data["description"],
		Contacts:    contacts,
	})
	if err != nil {
		return flow.Result{}, err
	}
	return flow.Result{
		Next:  flow.StateEnd,
		Reply: fmt.Sprintf("Предложение №%d опубликовано!", listing.ID),
	}, nil
}

// Request creation.

func (s *DialogService) handleRequestCategory(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	category, ok := matchCategory(ev.Text)
	if !ok {
		return flow.Result{Next: flow.RequestCategory, Reply: "Выберите категорию из списка:", Options: Categories}, nil
	}
	sess.Data["category"] = category
	return flow.Result{Next: flow.RequestDescription, Reply: "Опишите, какая помощь вам нужна:"}, nil
}

func (s *DialogService) handleRequestDescription(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	description := strings.TrimSpace(ev.Text)
	if err := ValidateDescription(description); err != nil {
		return flow.Result{Next: flow.RequestDescription, Reply: validationReply(err)}, nil
	}
	sess.Data["description"] = description
	return flow.Result{
		Next:    flow.RequestBudget,
		Reply:   "Укажите бюджет (или «пропустить»):",
		Options: []string{"пропустить"},
	}, nil
}

func (s *DialogService) handleRequestBudget(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	text := strings.TrimSpace(ev.Text)
	if !isSkip(text) {
		budget, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || budget < 0 {
			return flow.Result{
				Next:    flow.RequestBudget,
				Reply:   "Не получилось разобрать сумму. Укажите бюджет числом (или «пропустить»):",
				Options: []string{"пропустить"},
			}, nil
		}
		sess.Data["budget"] = strconv.FormatFloat(budget, 'f', -1, 64)
	}
	return flow.Result{
		Next:    flow.RequestDeadline,
		Reply:   "Укажите срок выполнения (или «пропустить»):",
		Options: []string{"пропустить"},
	}, nil
}

func (s *DialogService) handleRequestDeadline(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	text := strings.TrimSpace(ev.Text)
	if !isSkip(text) {
		sess.Data["deadline"] = text
	}
	return flow.Result{Next: flow.RequestContacts, Reply: "Укажите контакты для связи:"}, nil
}

func (s *DialogService) handleRequestContacts(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	contacts := strings.TrimSpace(ev.Text)
	if err := ValidateContacts(contacts); err != nil {
		return flow.Result{Next: flow.RequestContacts, Reply: validationReply(err)}, nil
	}

	req := models.CreateListingRequest{
		UserID:      sess.UserID,
		Kind:        models.KindRequest,
		Category:    sess.Data["category"],
		Title:       requestTitle(sess.Data["description"]),
		Description: sess.Data["description"],
		Contacts:    contacts,
	}
	if raw, ok := sess.Data["budget"]; ok {
		if budget, err := strconv.ParseFloat(raw, 64); err == nil {
			req.Budget = &budget
		}
	}
	if deadline, ok := sess.Data["deadline"]; ok {
		req.Deadline = &deadline
	}

	listing, err := s.Listings.CreateListing(ctx, req)
	if err != nil {
		return flow.Result{}, err
	}
	return flow.Result{
		Next:  flow.StateEnd,
		Reply: fmt.Sprintf("Запрос №%d опубликован!", listing.ID),
	}, nil
}

// Response submission.

func (s *DialogService) handleResponseChooseListing(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	listingID, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || listingID <= 0 {
		return flow.Result{Next: flow.ResponseChooseListing, Reply: "Введите номер объявления цифрами:"}, nil
	}
	listing, err := s.Listings.GetListingByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, models.ErrListingNotFound) {
			return flow.Result{Next: flow.StateEnd, Reply: "Объявление не найдено."}, nil
		}
		return flow.Result{}, err
	}
	sess.Data["listing_id"] = strconv.Itoa(listingID)
	return flow.Result{
		Next:  flow.ResponseMessage,
		Reply: listingSummary(listing) + "\n\nНапишите сообщение автору:",
	}, nil
}

func (s *DialogService) handleResponseMessage(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	listingID, _ := strconv.Atoi(sess.Data["listing_id"])

	_, err := s.Applications.SubmitApplication(ctx, models.SubmitApplicationRequest{
		ListingID: listingID,
		UserID:    sess.UserID,
		Message:   strings.TrimSpace(ev.Text),
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrListingNotFound):
			return flow.Result{Next: flow.StateEnd, Reply: "Объявление не найдено."}, nil
		case errors.Is(err, models.ErrListingNotOpen):
			return flow.Result{Next: flow.StateEnd, Reply: "Это объявление уже закрыто."}, nil
		case errors.Is(err, models.ErrSelfResponse):
			return flow.Result{Next: flow.StateEnd, Reply: "Нельзя откликнуться на собственное объявление."}, nil
		case errors.Is(err, models.ErrAlreadyResponded):
			return flow.Result{Next: flow.StateEnd, Reply: "Вы уже откликались на это объявление."}, nil
		}
		return flow.Result{}, err
	}
	return flow.Result{Next: flow.StateEnd, Reply: "Отклик отправлен!"}, nil
}

// Feedback.

func (s *DialogService) handleFeedbackRating(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(ev.Text), 64)
	if err != nil || ValidateReviewRating(value) != nil {
		return flow.Result{
			Next:    flow.FeedbackRating,
			Reply:   "Оцените пользователя числом от 1 до 5:",
			Options: []string{"1", "2", "3", "4", "5"},
		}, nil
	}
	sess.Data["rating"] = strconv.FormatFloat(value, 'f', -1, 64)
	return flow.Result{
		Next:    flow.FeedbackComment,
		Reply:   "Добавьте комментарий (или «пропустить»):",
		Options: []string{"пропустить"},
	}, nil
}

func (s *DialogService) handleFeedbackComment(ctx context.Context, sess *flow.Session, ev flow.Event) (flow.Result, error) {
	comment := strings.TrimSpace(ev.Text)
	if isSkip(comment) {
		comment = ""
	}

	reviewedID, _ := strconv.Atoi(sess.Data["reviewed_id"])
	rating, _ := strconv.ParseFloat(sess.Data["rating"], 64)

	req := models.CreateReviewRequest{
		ReviewerID: sess.UserID,
		ReviewedID: reviewedID,
		Rating:     rating,
		Comment:    comment,
	}
	if raw, ok := sess.Data["listing_id"]; ok {
		if listingID, err := strconv.Atoi(raw); err == nil {
			req.ListingID = &listingID
		}
	}

	if _, err := s.Ratings.RecordReview(ctx, req); err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyReviewed):
			return flow.Result{Next: flow.StateEnd, Reply: "Вы уже оставляли отзыв этому пользователю."}, nil
		case errors.Is(err, models.ErrUserNotFound):
			return flow.Result{Next: flow.StateEnd, Reply: "Пользователь не найден."}, nil
		}
		return flow.Result{}, err
	}
	return flow.Result{Next: flow.StateEnd, Reply: "Спасибо за отзыв!"}, nil
}

// Helpers.

func isYes(text string) bool {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case "да", "yes", "y":
		return true
	}
	return false
}

func isSkip(text string) bool {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case "", "пропустить", "skip", "-":
		return true
	}
	return false
}

func matchCategory(text string) (string, bool) {
	needle := strings.TrimSpace(strings.ToLower(text))
	for _, c := range Categories {
		if c == needle {
			return c, true
		}
	}
	return "", false
}

// listingSummary renders the card shown before the user writes a response.
// Missing optional fields show as "Не указан".
func listingSummary(l models.Listing) string {
	budget := "Не указан"
	if l.Budget != nil {
		budget = strconv.FormatFloat(*l.Budget, 'f', -1, 64)
	}
	deadline := "Не указан"
	if l.Deadline != nil && *l.Deadline != "" {
		deadline = *l.Deadline
	}
	return fmt.Sprintf("«%s»\n%s\nБюджет: %s\nСрок: %s", l.Title, l.Description, budget, deadline)
}

// requestTitle derives a short title from the request description.
func requestTitle(description string) string {
	runes := []rune(description)
	if len(runes) <= TitleMaxLen {
		return description
	}
	return string(runes[:TitleMaxLen-3]) + "..."
}

func validationReply(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "Некорректное значение, попробуйте ещё раз."
}
