package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// callbackHandler обрабатывает нажатие кнопки и возвращает текст уведомления.
type callbackHandler func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error)

// Dispatcher - точка входа для всех событий чата. Загружает сессию,
// направляет событие в нужный сценарий и сохраняет сессию.
type Dispatcher struct {
	sessions   port.SessionStore
	messenger  port.Messenger
	admins     map[int64]struct{}
	authoring  *AuthoringUseCase
	browse     *BrowseUseCase
	pager      *PagerUseCase
	favorites  *FavoritesUseCase
	reviews    *ReviewsUseCase
	profile    *ProfileUseCase
	admin      *AdminUseCase
	newsletter *NewsletterUseCase
	log        *zap.Logger

	callbacks map[domain.CallbackKind]callbackHandler
	// Кнопки, доступные только администраторам
	adminCallbacks map[domain.CallbackKind]bool
}

// DispatcherDeps - зависимости диспетчера
type DispatcherDeps struct {
	Sessions   port.SessionStore
	Messenger  port.Messenger
	AdminIDs   []int64
	Authoring  *AuthoringUseCase
	Browse     *BrowseUseCase
	Pager      *PagerUseCase
	Favorites  *FavoritesUseCase
	Reviews    *ReviewsUseCase
	Profile    *ProfileUseCase
	Admin      *AdminUseCase
	Newsletter *NewsletterUseCase
}

// NewDispatcher создает диспетчер.
func NewDispatcher(deps DispatcherDeps, log *zap.Logger) (*Dispatcher, error) {
	if deps.Sessions == nil || deps.Messenger == nil {
		return nil, fmt.Errorf("dispatcher: session store and messenger are required")
	}
	if deps.Authoring == nil || deps.Browse == nil || deps.Pager == nil || deps.Favorites == nil ||
		deps.Reviews == nil || deps.Profile == nil || deps.Admin == nil || deps.Newsletter == nil {
		return nil, fmt.Errorf("dispatcher: every use case is required")
	}

	d := &Dispatcher{
		sessions:   deps.Sessions,
		messenger:  deps.Messenger,
		admins:     make(map[int64]struct{}, len(deps.AdminIDs)),
		authoring:  deps.Authoring,
		browse:     deps.Browse,
		pager:      deps.Pager,
		favorites:  deps.Favorites,
		reviews:    deps.Reviews,
		profile:    deps.Profile,
		admin:      deps.Admin,
		newsletter: deps.Newsletter,
		log:        log.Named("dispatcher"),
	}
	for _, id := range deps.AdminIDs {
		d.admins[id] = struct{}{}
	}

	d.callbacks = map[domain.CallbackKind]callbackHandler{
		domain.KindPrevPage: func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
			return d.pager.Navigate(ctx, upd, s, -1)
		},
		domain.KindNextPage: func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
			return d.pager.Navigate(ctx, upd, s, 1)
		},
		domain.KindPageInfo: func(context.Context, domain.Update, *domain.Session) (string, error) { return "", nil },
		domain.KindDetails: func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
			return d.pager.ToggleDetails(ctx, upd, s, true)
		},
		domain.KindSummary: func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
			return d.pager.ToggleDetails(ctx, upd, s, false)
		},
		domain.KindMap:         d.pager.ShowMap,
		domain.KindFavorite:    d.favorites.HandleAdd,
		domain.KindUnfavorite:  d.favorites.HandleRemove,
		domain.KindReviews:     d.reviews.Show,
		domain.KindLeaveReview: d.reviews.Start,
		domain.KindBackToMenu:  d.backToMenu,

		domain.KindSearch:    d.browse.Start,
		domain.KindFavorites: d.favorites.Show,
		domain.KindTopRated:  d.browse.TopRated,
		domain.KindProfile:   d.profile.Show,
		domain.KindSubscribe: func(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
			return d.profile.SetSubscription(ctx, upd, true)
		},
		domain.KindUnsubscribe: func(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
			return d.profile.SetSubscription(ctx, upd, false)
		},
		domain.KindSetEmail: d.profile.StartEmail,

		domain.KindFilterToggle:   d.browse.Toggle,
		domain.KindFilterContinue: d.browse.Continue,
		domain.KindFilterSkip:     d.browse.Skip,
		domain.KindFilterBack: func(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
			return d.browse.Back(ctx, upd, s, d.profile.Subscribed(ctx, upd.UserID))
		},

		domain.KindEditField:     d.authoring.SelectField,
		domain.KindApproveReview: d.reviews.Approve,
		domain.KindRejectReview:  d.reviews.Reject,
	}
	d.adminCallbacks = map[domain.CallbackKind]bool{
		domain.KindEditField:     true,
		domain.KindApproveReview: true,
		domain.KindRejectReview:  true,
	}
	return d, nil
}

// IsAdmin сообщает, входит ли пользователь в список администраторов.
func (d *Dispatcher) IsAdmin(userID int64) bool {
	_, ok := d.admins[userID]
	return ok
}

// Handle обрабатывает одно событие. События одного чата должны приходить последовательно.
func (d *Dispatcher) Handle(ctx context.Context, upd domain.Update) error {
	key := upd.Key()
	log := d.log.With(zap.Int64("chat_id", upd.ChatID), zap.Int64("user_id", upd.UserID))

	s, err := d.sessions.Get(ctx, key)
	if err != nil {
		log.Error("Dispatcher: Failed to load session", zap.Error(err))
		if upd.Kind == domain.UpdateCallback {
			d.answer(ctx, upd, constants.TextGenericFailure)
		}
		return fmt.Errorf("failed to load session %s: %w", key, err)
	}
	step := s.Step

	if upd.Kind == domain.UpdateCallback {
		var toast string
		toast, err = d.handleCallback(ctx, upd, s)
		d.answer(ctx, upd, toast)
	} else {
		err = d.handleMessage(ctx, upd, s)
	}

	if err != nil {
		log.Error("Dispatcher: Flow failed", zap.String("step", string(step)), zap.Error(err))
		s.ResetFlow()
		d.reportFailure(ctx, upd, step, err)
	} else if s.Step != step {
		log.Debug("Dispatcher: Step changed", zap.String("from", string(step)), zap.String("to", string(s.Step)))
	}

	if saveErr := d.store(ctx, key, s); saveErr != nil {
		log.Error("Dispatcher: Failed to save session", zap.Error(saveErr))
		return fmt.Errorf("failed to save session %s: %w", key, saveErr)
	}
	return err
}

// store сохраняет сессию. Пустая сессия удаляется из хранилища.
func (d *Dispatcher) store(ctx context.Context, key domain.SessionKey, s *domain.Session) error {
	if s.Empty() {
		return d.sessions.Clear(ctx, key)
	}
	return d.sessions.Save(ctx, key, s)
}

func (d *Dispatcher) answer(ctx context.Context, upd domain.Update, toast string) {
	if upd.CallbackID == "" {
		return
	}
	if err := d.messenger.AnswerCallback(ctx, upd.CallbackID, toast); err != nil {
		d.log.Debug("Dispatcher: Failed to answer callback", zap.Error(err))
	}
}

// reportFailure: администратору показывается текст ошибки, пользователю - общее сообщение.
func (d *Dispatcher) reportFailure(ctx context.Context, upd domain.Update, step domain.Step, err error) {
	text := constants.TextGenericFailure
	var markup *domain.Markup
	if d.IsAdmin(upd.UserID) {
		text = fmt.Sprintf(constants.TextError, err)
		if step.AdminFlow() {
			markup = adminPanelMarkup()
		}
	}
	if _, sendErr := d.messenger.SendText(ctx, upd.ChatID, text, markup); sendErr != nil {
		d.log.Warn("Dispatcher: Failed to report error", zap.Int64("chat_id", upd.ChatID), zap.Error(sendErr))
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	if upd.Callback == nil {
		return constants.TextStaleButton, nil
	}
	handler, ok := d.callbacks[upd.Callback.Kind]
	if !ok {
		return constants.TextStaleButton, nil
	}
	if d.adminCallbacks[upd.Callback.Kind] && !d.IsAdmin(upd.UserID) {
		return constants.TextAccessDenied, nil
	}
	return handler(ctx, upd, s)
}

func (d *Dispatcher) backToMenu(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	s.ResetFlow()
	return "", d.profile.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextMainMenu)
}

func (d *Dispatcher) handleMessage(ctx context.Context, upd domain.Update, s *domain.Session) error {
	text := strings.TrimSpace(upd.Text)

	if upd.Kind == domain.UpdateText {
		if s.Active() && isCancel(text) {
			return d.cancel(ctx, upd, s)
		}
		switch strings.ToLower(text) {
		case constants.CommandStart:
			s.ResetFlow()
			return d.profile.Welcome(ctx, upd)
		case constants.CommandAdmin:
			if !d.IsAdmin(upd.UserID) {
				_, err := d.messenger.SendText(ctx, upd.ChatID, constants.TextAccessDenied, nil)
				return err
			}
			s.ResetFlow()
			return d.admin.Panel(ctx, upd)
		case constants.CommandCancel:
			return d.profile.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextMainMenu)
		}
	}

	if s.Active() {
		return d.handleStep(ctx, upd, s)
	}

	switch upd.Kind {
	case domain.UpdateContact:
		return d.profile.SavePhone(ctx, upd)
	case domain.UpdateText:
		if handled, err := d.handleAdminButton(ctx, upd, s, text); handled {
			return err
		}
		return d.profile.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextChooseAction)
	}
	return nil
}

func (d *Dispatcher) handleStep(ctx context.Context, upd domain.Update, s *domain.Session) error {
	switch s.Step.Flow() {
	case "card":
		return d.authoring.HandleCard(ctx, upd, s)
	case "edit":
		return d.authoring.HandleEdit(ctx, upd, s)
	case "delete":
		return d.authoring.HandleDelete(ctx, upd, s)
	case "review":
		return d.reviews.Handle(ctx, upd, s)
	case "newsletter":
		return d.newsletter.Handle(ctx, upd, s)
	case "profile":
		return d.profile.Handle(ctx, upd, s)
	case "filter":
		// Мастер фильтров управляется кнопками
		if upd.Kind == domain.UpdateContact {
			return d.profile.SavePhone(ctx, upd)
		}
		return nil
	}
	d.log.Warn("Dispatcher: Unknown step, resetting", zap.String("step", string(s.Step)))
	s.ResetFlow()
	return nil
}

// cancel прерывает активный сценарий и возвращает на домашний экран.
func (d *Dispatcher) cancel(ctx context.Context, upd domain.Update, s *domain.Session) error {
	adminFlow := s.Step.AdminFlow()
	s.ResetFlow()
	if adminFlow && d.IsAdmin(upd.UserID) {
		_, err := d.messenger.SendText(ctx, upd.ChatID, constants.TextCancelled, adminPanelMarkup())
		return err
	}
	if _, err := d.messenger.SendText(ctx, upd.ChatID, constants.TextCancelled, removeReplyMarkup()); err != nil {
		return err
	}
	return d.profile.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextMainMenu)
}

// handleAdminButton обрабатывает кнопки панели администратора.
func (d *Dispatcher) handleAdminButton(ctx context.Context, upd domain.Update, s *domain.Session, text string) (bool, error) {
	var action func() error
	switch text {
	case constants.AdminCreateCard:
		action = func() error { return d.authoring.StartCard(ctx, upd, s) }
	case constants.AdminEditCard:
		action = func() error { return d.authoring.StartEdit(ctx, upd, s) }
	case constants.AdminDeleteCard:
		action = func() error { return d.authoring.StartDelete(ctx, upd, s) }
	case constants.AdminListCards:
		action = func() error { return d.admin.ListCards(ctx, upd) }
	case constants.AdminAnalytics:
		action = func() error { return d.admin.Analytics(ctx, upd) }
	case constants.AdminNewsletter:
		action = func() error { return d.newsletter.Start(ctx, upd, s) }
	case constants.AdminReviews:
		action = func() error { return d.reviews.ListPending(ctx, upd) }
	case constants.AdminBackToMenu:
		action = func() error {
			if _, err := d.messenger.SendText(ctx, upd.ChatID, constants.TextMainMenu, removeReplyMarkup()); err != nil {
				return err
			}
			return d.profile.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextChooseAction)
		}
	default:
		return false, nil
	}

	if !d.IsAdmin(upd.UserID) {
		_, err := d.messenger.SendText(ctx, upd.ChatID, constants.TextAccessDenied, nil)
		return true, err
	}
	return true, action()
}
