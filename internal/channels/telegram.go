package channels

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/weatherbot/weatherbot/internal/config/channel"
	"github.com/weatherbot/weatherbot/internal/session"
)

// telegramBot is the subset of *tgbotapi.BotAPI the channel uses.
type telegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramChannel implements the Telegram bot via long polling.
// Updates are handled one at a time, so a chat never has two exchanges
// in flight.
type TelegramChannel struct {
	Base
	cfg            *channel.TelegramConfig
	bot            telegramBot
	typingInterval time.Duration
}

// NewTelegramChannel creates a TelegramChannel.
func NewTelegramChannel(cfg *channel.TelegramConfig, sessions *session.Manager) *TelegramChannel {
	return &TelegramChannel{
		Base:           NewBase("telegram", sessions, cfg.AllowFrom),
		cfg:            cfg,
		typingInterval: 4 * time.Second,
	}
}

func (t *TelegramChannel) Name() string { return "telegram" }

// Connect authenticates with the Bot API. Start calls it when needed.
func (t *TelegramChannel) Connect() error {
	if t.bot != nil {
		return nil
	}
	if t.cfg.Token == "" {
		return fmt.Errorf("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)
	return nil
}

func (t *TelegramChannel) Start(ctx context.Context) error {
	if err := t.Connect(); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(ctx, update)
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	senderID := fmt.Sprintf("%d", msg.From.ID)
	if msg.From.UserName != "" {
		senderID = senderID + "|" + msg.From.UserName
	}
	chatID := fmt.Sprintf("%d", msg.Chat.ID)

	content := strings.TrimSpace(msg.Text)
	if content == "" {
		content = strings.TrimSpace(msg.Caption)
	}
	if content == "" {
		return
	}

	typingCtx, cancelTyping := context.WithCancel(ctx)
	defer cancelTyping()
	go t.sendTypingLoop(typingCtx, msg.Chat.ID)

	reply, ok := t.HandleMessage(ctx, senderID, chatID, content)
	if !ok {
		return
	}
	cancelTyping()

	replyTo := 0
	if t.cfg.ReplyToMessage {
		replyTo = msg.MessageID
	}
	if err := t.send(msg.Chat.ID, reply, replyTo); err != nil {
		slog.Error("telegram: send failed", "chat", chatID, "err", err)
	}
}

func (t *TelegramChannel) sendTypingLoop(ctx context.Context, chatID int64) {
	for {
		action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
		_, _ = t.bot.Send(action)
		select {
		case <-time.After(t.typingInterval):
		case <-ctx.Done():
			return
		}
	}
}

// Send delivers text to chatID, e.g. a scheduled briefing.
func (t *TelegramChannel) Send(_ context.Context, chatID, text string) error {
	if err := t.Connect(); err != nil {
		return err
	}
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	return t.send(id, text, 0)
}

func (t *TelegramChannel) send(chatID int64, content string, replyTo int) error {
	if content == "" {
		return nil
	}
	for _, chunk := range splitMessage(content, 4000) {
		m := tgbotapi.NewMessage(chatID, markdownToTelegramHTML(chunk))
		m.ParseMode = tgbotapi.ModeHTML
		m.ReplyToMessageID = replyTo
		if _, err := t.bot.Send(m); err != nil {
			// Fallback to plain text.
			plain := tgbotapi.NewMessage(chatID, chunk)
			plain.ReplyToMessageID = replyTo
			if _, err := t.bot.Send(plain); err != nil {
				return fmt.Errorf("telegram: send: %w", err)
			}
		}
	}
	return nil
}

func parseChatID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid chat_id: %s", s)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Markdown → Telegram HTML converter
// ---------------------------------------------------------------------------

var (
	reTGCodeBlock  = regexp.MustCompile("(?s)```[\\w]*\\n?([\\s\\S]*?)```")
	reTGInlineCode = regexp.MustCompile("`([^`]+)`")
	reTGHeader     = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	reTGBlockquote = regexp.MustCompile(`(?m)^>\s*(.*)$`)
	reTGLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reTGBold1      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reTGBold2      = regexp.MustCompile(`__(.+?)__`)
	reTGItalic     = regexp.MustCompile(`(?:^|[^a-zA-Z0-9])_([^_]+)_(?:[^a-zA-Z0-9]|$)`)
	reTGStrike     = regexp.MustCompile(`~~(.+?)~~`)
	reTGBullet     = regexp.MustCompile(`(?m)^[-*]\s+`)
)

func markdownToTelegramHTML(text string) string {
	if text == "" {
		return ""
	}

	// 1. Extract code blocks.
	var codeBlocks []string
	text = reTGCodeBlock.ReplaceAllStringFunc(text, func(m string) string {
		groups := reTGCodeBlock.FindStringSubmatch(m)
		codeBlocks = append(codeBlocks, groups[1])
		return fmt.Sprintf("\x00CB%d\x00", len(codeBlocks)-1)
	})

	// 2. Extract inline code.
	var inlineCodes []string
	text = reTGInlineCode.ReplaceAllStringFunc(text, func(m string) string {
		groups := reTGInlineCode.FindStringSubmatch(m)
		inlineCodes = append(inlineCodes, groups[1])
		return fmt.Sprintf("\x00IC%d\x00", len(inlineCodes)-1)
	})

	// 3. Strip headers.
	text = reTGHeader.ReplaceAllString(text, "$1")
	// 4. Strip blockquotes.
	text = reTGBlockquote.ReplaceAllString(text, "$1")

	// 5. HTML escape.
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")

	// 6. Links.
	text = reTGLink.ReplaceAllString(text, `<a href="$2">$1</a>`)
	// 7. Bold.
	text = reTGBold1.ReplaceAllString(text, "<b>$1</b>")
	text = reTGBold2.ReplaceAllString(text, "<b>$1</b>")
	// 8. Italic.
	text = reTGItalic.ReplaceAllString(text, "<i>$1</i>")
	// 9. Strikethrough.
	text = reTGStrike.ReplaceAllString(text, "<s>$1</s>")
	// 10. Bullet lists.
	text = reTGBullet.ReplaceAllString(text, "• ")

	// 11. Restore inline code.
	for i, code := range inlineCodes {
		escaped := htmlEscape(code)
		text = strings.ReplaceAll(text, fmt.Sprintf("\x00IC%d\x00", i),
			"<code>"+escaped+"</code>")
	}
	// 12. Restore code blocks.
	for i, code := range codeBlocks {
		escaped := htmlEscape(code)
		text = strings.ReplaceAll(text, fmt.Sprintf("\x00CB%d\x00", i),
			"<pre><code>"+escaped+"</code></pre>")
	}
	return text
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
