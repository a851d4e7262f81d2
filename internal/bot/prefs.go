package bot

import "sync"

// chatPrefs holds a chat's subtitle styling choices.
type chatPrefs struct {
	FontSize  int
	FontColor string
}

// prefsStore keeps per-chat preferences in memory. Chats that never touched
// the settings menu get the configured defaults.
type prefsStore struct {
	mu       sync.Mutex
	defaults chatPrefs
	byChat   map[int64]chatPrefs
}

func newPrefsStore(defaultSize int, defaultColor string) *prefsStore {
	return &prefsStore{
		defaults: chatPrefs{FontSize: defaultSize, FontColor: defaultColor},
		byChat:   make(map[int64]chatPrefs),
	}
}

func (p *prefsStore) Get(chatID int64) chatPrefs {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prefs, ok := p.byChat[chatID]; ok {
		return prefs
	}
	return p.defaults
}

func (p *prefsStore) SetFontSize(chatID int64, size int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, ok := p.byChat[chatID]
	if !ok {
		prefs = p.defaults
	}
	prefs.FontSize = size
	p.byChat[chatID] = prefs
}

func (p *prefsStore) SetFontColor(chatID int64, color string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prefs, ok := p.byChat[chatID]
	if !ok {
		prefs = p.defaults
	}
	prefs.FontColor = color
	p.byChat[chatID] = prefs
}
