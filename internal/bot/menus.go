package bot

import (
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"subweld/internal/config"
	"subweld/internal/services/ffmpeg"
	"subweld/internal/transport/telegram"
)

var titleCase = cases.Title(language.English)

// Callback data prefixes for the settings menus.
const (
	callbackMenuSize  = "menu:size"
	callbackMenuColor = "menu:color"
	callbackSetSize   = "size:"
	callbackSetColor  = "color:"
)

func settingsKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "Font size", CallbackData: callbackMenuSize},
				{Text: "Font color", CallbackData: callbackMenuColor},
			},
		},
	}
}

func fontSizeKeyboard() *telegram.InlineKeyboardMarkup {
	sizes := config.FontSizes()
	var rows [][]telegram.InlineKeyboardButton
	var row []telegram.InlineKeyboardButton
	for _, size := range sizes {
		row = append(row, telegram.InlineKeyboardButton{
			Text:         strconv.Itoa(size),
			CallbackData: callbackSetSize + strconv.Itoa(size),
		})
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func fontColorKeyboard() *telegram.InlineKeyboardMarkup {
	var row []telegram.InlineKeyboardButton
	for _, name := range ffmpeg.ColorNames() {
		row = append(row, telegram.InlineKeyboardButton{
			Text:         titleCase.String(name),
			CallbackData: callbackSetColor + name,
		})
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{row}}
}

func settingsText(prefs chatPrefs) string {
	return fmt.Sprintf("Current subtitle settings:\nFont size: %d\nFont color: %s", prefs.FontSize, prefs.FontColor)
}
