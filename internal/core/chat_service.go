package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gwi.com/calorie-chat/internal/config"
	"gwi.com/calorie-chat/internal/food"
	"gwi.com/calorie-chat/internal/ledger"
	"gwi.com/calorie-chat/internal/lookup"
)

const (
	greeting = "Hi there! I'm your calorie tracking assistant. You can tell me what you ate, " +
		"and I'll help you track your calories. What did you have today?"

	searchFailedMessage = "There was an error searching for food items. Please try another term."

	defaultLookupTimeout = 15 * time.Second
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrEmptyMessage    = errors.New("message content cannot be empty")
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one chat bubble. A bot message with IsLoading set is a
// placeholder awaiting its reply.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsLoading bool      `json:"isLoading,omitempty"`
}

type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}

// Notice is a short, non-blocking notification shown next to a reply.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Reply struct {
	Message Message     `json:"message"`
	Items   []food.Item `json:"items"`
	Notice  *Notice     `json:"notice,omitempty"`
}

// ChatService turns chat messages into tracked food. Sessions live in memory
// only and are lost on restart.
type ChatService struct {
	searcher      lookup.Searcher
	extractor     food.Extractor
	ledger        *ledger.Ledger
	lookupTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewChatService(searcher lookup.Searcher, extractor food.Extractor, l *ledger.Ledger, lookupTimeout time.Duration) *ChatService {
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	return &ChatService{
		searcher:      searcher,
		extractor:     extractor,
		ledger:        l,
		lookupTimeout: lookupTimeout,
		sessions:      make(map[string]*Session),
	}
}

func (s *ChatService) CreateSession() *Session {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Messages: []Message{{
			ID:        uuid.NewString(),
			Content:   greeting,
			Sender:    SenderBot,
			Timestamp: now,
		}},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return copySession(session)
}

func (s *ChatService) GetSession(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

// PostMessage records the user's message, resolves the foods it mentions and
// returns the bot reply. The reply takes the place of a loading placeholder
// appended together with the user message, so message order is kept even if
// other messages arrive while the lookup is in flight.
func (s *ChatService) PostMessage(ctx context.Context, sessionID, content string) (*Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	now := time.Now()
	placeholder := Message{ID: uuid.NewString(), Sender: SenderBot, Timestamp: now, IsLoading: true}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	session.Messages = append(session.Messages,
		Message{ID: uuid.NewString(), Content: content, Sender: SenderUser, Timestamp: now},
		placeholder,
	)
	s.mu.Unlock()

	text, items, notice := s.respond(ctx, content)

	reply := Message{ID: placeholder.ID, Content: text, Sender: SenderBot, Timestamp: time.Now()}
	s.mu.Lock()
	for i := range session.Messages {
		if session.Messages[i].ID == placeholder.ID {
			session.Messages[i] = reply
			break
		}
	}
	s.mu.Unlock()

	return &Reply{Message: reply, Items: items, Notice: notice}, nil
}

func (s *ChatService) respond(ctx context.Context, content string) (string, []food.Item, *Notice) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	items, err := s.searcher.Search(lookupCtx, content)
	if err != nil {
		log.Printf("Food search failed for %q: %v", content, err)
		items = s.resolveLocally(ctx, content)
	}

	if len(items) == 0 {
		var lookupErr *lookup.LookupError
		if errors.As(err, &lookupErr) {
			return searchFailedMessage, nil, &Notice{
				Title:       "Food Search Error",
				Description: "There was an error searching for food items. Please try another term.",
			}
		}
		hint := commonFoodsHint()
		return "I couldn't find any food items. " + hint, nil, &Notice{
			Title:       "Food Search Error",
			Description: hint,
		}
	}

	var target *int
	goal, err := s.ledger.Goal(ctx)
	if err != nil {
		log.Printf("Failed to load daily goal: %v", err)
	} else if goal != nil {
		target = &goal.DailyCalorieTarget
	}
	text := food.Compose(items, target)

	var notice *Notice
	if err := s.ledger.Append(ctx, items); err != nil {
		log.Printf("Failed to save %d food items: %v", len(items), err)
		notice = &Notice{
			Title:       "Storage Error",
			Description: "Your meal was recognised but could not be saved. Please try again.",
		}
	}
	if config.Debug() {
		log.Printf("Tracked %d items (%d kcal) for %q", len(items), food.TotalCalories(items), content)
	}
	return text, items, notice
}

// resolveLocally runs the extractor, then the fallback table. The extractor
// may call out to Gemini, so it gets its own lookup deadline.
func (s *ChatService) resolveLocally(ctx context.Context, content string) []food.Item {
	if s.extractor != nil {
		extractCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		items, err := s.extractor.Extract(extractCtx, content)
		cancel()
		if err != nil {
			log.Printf("Local food extraction failed: %v", err)
		}
		if len(items) > 0 {
			return items
		}
	}
	return lookup.Fallback(content)
}

// Foods suggested when nothing was recognised. Banana is in the fallback
// table but not suggested.
var hintFoods = []string{"apple", "chicken", "rice", "bread", "egg", "beef", "potato", "milk", "yogurt"}

func commonFoodsHint() string {
	quoted := make([]string, len(hintFoods))
	for i, k := range hintFoods {
		quoted[i] = fmt.Sprintf("'%s'", k)
	}
	last := len(quoted) - 1
	return fmt.Sprintf("Try searching for common foods like %s, or %s.", strings.Join(quoted[:last], ", "), quoted[last])
}

func copySession(session *Session) *Session {
	c := *session
	c.Messages = append([]Message(nil), session.Messages...)
	return &c
}
