package router

import (
	"context"
	"runtime"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cronconv/internal/runtime/supervisor"
	"cronconv/internal/storage"
	kit "cronconv/internal/transport"
	logx "cronconv/pkg/logx"
)

const defaultCommandTimeout = 10 * time.Second

type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Timeout     time.Duration // optional per-command override
	Handle      HandlerFunc
}

type Request struct {
	Message *kit.Message
	Chat    kit.ChatTarget
	FromID  int64
	Command string
	Args    []string
	ReqID   string

	Sender kit.Sender
	Logger logx.Logger
}

// Actor is the identity recorded in history for this request.
func (r *Request) Actor() string {
	if r.Message != nil && r.Message.FromUsername != "" {
		return "@" + r.Message.FromUsername
	}
	return strconv.FormatInt(r.FromID, 10)
}

// Reply sends HTML text back to the originating chat.
func (r *Request) Reply(ctx context.Context, text string) error {
	_, err := r.Sender.SendText(ctx, r.Chat, text, &kit.SendOptions{ParseMode: "HTML", DisablePreview: true})
	return err
}

type Options struct {
	// AllowedChatIDs restricts usage; empty allows every chat.
	AllowedChatIDs []int64
	RatePerSec     float64
	Burst          int
	Workers        int
}

// Router parses incoming messages and runs matching commands on a bounded
// worker pool.
type Router struct {
	log     logx.Logger
	sender  kit.Sender
	limiter *chatLimiter
	workers int
	reqIDs  *storage.IDSource

	mu      sync.RWMutex
	byName  map[string]*Command
	ordered []Command
	allowed map[int64]struct{}

	jobs chan func()
}

func New(log logx.Logger, sender kit.Sender, opt Options) *Router {
	if log.IsZero() {
		log = logx.Nop()
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 2)
	}
	r := &Router{
		log:     log,
		sender:  sender,
		limiter: newChatLimiter(opt.RatePerSec, opt.Burst),
		workers: workers,
		reqIDs:  storage.NewIDSource(),
		byName:  map[string]*Command{},
		jobs:    make(chan func(), 256),
	}
	r.SetAllowedChats(opt.AllowedChatIDs)
	return r
}

// SetAllowedChats replaces the chat allow-list. Safe during hot reload.
func (r *Router) SetAllowedChats(ids []int64) {
	allowed := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	r.mu.Lock()
	r.allowed = allowed
	r.mu.Unlock()
}

// SetRate changes the per-chat command budget.
func (r *Router) SetRate(perSec float64, burst int) { r.limiter.set(perSec, burst) }

func (r *Router) chatAllowed(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.allowed) == 0 {
		return true
	}
	_, ok := r.allowed[id]
	return ok
}

// SetRegistry installs cmds plus the built-in /help.
func (r *Router) SetRegistry(cmds []Command) {
	help := Command{
		Name:        "help",
		Aliases:     []string{"start", "h"},
		Description: "show available commands",
		Usage:       "/help [command]",
	}
	all := append(append([]Command(nil), cmds...), help)

	byName := map[string]*Command{}
	ordered := make([]Command, 0, len(all))
	for i := range all {
		c := all[i]
		name := sanitizeTelegramCommand(c.Name)
		if name == "" {
			continue
		}
		c.Name = name
		if c.Name == "help" {
			c.Handle = func(ctx context.Context, req *Request) error {
				return req.Reply(ctx, r.helpText(req.Args))
			}
		}
		if c.Handle == nil {
			continue
		}
		cp := c
		byName[name] = &cp
		for _, a := range c.Aliases {
			if a = sanitizeTelegramCommand(a); a != "" {
				if _, exists := byName[a]; !exists {
					byName[a] = &cp
				}
			}
		}
		ordered = append(ordered, cp)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	r.mu.Lock()
	r.byName = byName
	r.ordered = ordered
	r.mu.Unlock()
}

// Menu returns the bot command list for Telegram autocomplete.
func (r *Router) Menu() []kit.BotCommand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]kit.BotCommand, 0, len(r.ordered))
	for _, c := range r.ordered {
		out = append(out, kit.BotCommand{Command: c.Name, Description: c.Description})
	}
	return out
}

func (r *Router) lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	if !ok {
		return Command{}, false
	}
	return *c, true
}

// DispatchLoop consumes updates until ctx is done or updates is closed.
func (r *Router) DispatchLoop(ctx context.Context, updates <-chan kit.Update) error {
	sup := supervisor.New(ctx, supervisor.WithLogger(r.log))
	jobs := r.jobs
	for i := 0; i < r.workers; i++ {
		idx := i
		sup.GoRestart("command.worker."+strconv.Itoa(idx), func(c context.Context) error {
			for {
				select {
				case <-c.Done():
					return nil
				case job := <-jobs:
					r.runJob(idx, job)
				}
			}
		}, supervisor.WithRestartBackoff(200*time.Millisecond, 5*time.Second))
	}
	r.log.Info("command dispatcher started", logx.Int("workers", r.workers), logx.Int("job_queue_cap", cap(jobs)))

	defer func() {
		wctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = sup.Stop(wctx)
		cancel()
		r.log.Info("command dispatcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			job := r.route(ctx, up)
			if job == nil {
				continue
			}
			select {
			case jobs <- job:
			default:
				if msg := up.Message; msg != nil {
					_, _ = r.sender.SendText(ctx, kit.ChatTarget{ChatID: msg.ChatID, ThreadID: msg.ThreadID}, "busy, try again", nil)
				}
			}
		}
	}
}

func (r *Router) runJob(worker int, job func()) {
	if job == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("panic in command job", logx.Int("worker", worker), logx.Any("panic", p), logx.String("stack", string(debug.Stack())))
		}
	}()
	job()
}

// Dispatch routes one update and runs it on the calling goroutine.
func (r *Router) Dispatch(ctx context.Context, up kit.Update) {
	if job := r.route(ctx, up); job != nil {
		job()
	}
}

// route resolves an update into a runnable job, or nil when there is nothing to run.
func (r *Router) route(ctx context.Context, up kit.Update) func() {
	msg := up.Message
	if up.Kind != kit.UpdateMessage || msg == nil {
		return nil
	}
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return nil
	}
	parts := tokenizeCommandLine(text)
	if len(parts) == 0 {
		return nil
	}
	word := commandWord(parts[0])
	chat := kit.ChatTarget{ChatID: msg.ChatID, ThreadID: msg.ThreadID}

	if !r.chatAllowed(msg.ChatID) {
		r.log.Debug("chat not allowed", logx.Int64("chat_id", msg.ChatID), logx.String("cmd", word))
		return nil
	}

	cmd, ok := r.lookup(word)
	if !ok {
		return func() {
			_, _ = r.sender.SendText(ctx, chat, "unknown command. try /help", nil)
		}
	}

	rid := r.reqIDs.Next(time.Now())
	req := &Request{
		Message: msg,
		Chat:    chat,
		FromID:  msg.FromID,
		Command: cmd.Name,
		Args:    parts[1:],
		ReqID:   rid,
		Sender:  r.sender,
		Logger: r.log.With(
			logx.String("rid", rid),
			logx.Int64("chat_id", msg.ChatID),
			logx.Int64("from_id", msg.FromID),
			logx.String("cmd", cmd.Name),
		),
	}
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	final := Chain(
		cmd.Handle,
		MWPanicRecover(r.log),
		MWRequestLog(r.log),
		MWRateLimit(r.limiter),
		MWTimeout(timeout),
	)
	return func() { _ = final(ctx, req) }
}
