package service

import (
	"fmt"
	"strings"

	"domli-search/internal/model"
)

// systemPrompt steers the external model; the property block appended to
// the user message is the only factual source it is given.
const systemPrompt = `Ты - уверенный эксперт по недвижимости компании DomLi в Краснодаре. Ты знаешь рынок как свои пять пальцев.

СТИЛЬ ОБЩЕНИЯ:
- Говори уверенно и прямо
- НИКОГДА не извиняйся ("Извините", "К сожалению", "Простите")
- Начинай с конкретных предложений недвижимости
- Будь профессиональным консультантом, а не извиняющимся помощником

ФОРМАТ ОТВЕТА:
1. Сразу показывай подходящие объекты из базы
2. Указывай цену, площадь, район для каждого объекта
3. Если нет точных совпадений - предлагай похожие варианты
4. Задавай уточняющие вопросы для улучшения поиска

ДОСТУПНЫЕ ПАРАМЕТРЫ:
- Тип: квартира, студия, пентхаус, таунхаус
- Комнаты: 1, 2, 3, 4, 5+
- Бюджет: любые цены
- Район: весь Краснодар
- Площадь: любые размеры
- Статус: в продаже, котлован, сдан

ВАЖНО: Начинай ответы с фраз типа "Показываю варианты", "Нашел для вас", "Рекомендую посмотреть" - НЕ с извинений!`

// Composer turns matched properties into chat prose: the block fed to the
// external model, and the deterministic fallback shown when the model is
// unavailable. The fallback path must look like a normal reply, never
// like an error.
type Composer struct {
	compactLimit int
}

// NewComposer creates a composer quoting at most compactLimit properties
// inside fallback prose
func NewComposer(compactLimit int) *Composer {
	return &Composer{compactLimit: compactLimit}
}

// SystemPrompt returns the system message for the external model.
func (c *Composer) SystemPrompt() string {
	return systemPrompt
}

// FormatForModel renders the match list as the factual block appended to
// the user message sent to the external model.
func (c *Composer) FormatForModel(results []model.MatchResult) string {
	if len(results) == 0 {
		return "В базе данных не найдено подходящих объектов."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Найдено %d объектов недвижимости:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, displayName(r))
		fmt.Fprintf(&b, "📍 Адрес: %s\n", r.Address)
		fmt.Fprintf(&b, "💰 Цена: %s\n", r.FormattedPrice)
		fmt.Fprintf(&b, "📐 Площадь: %s\n", formatArea(r.AreaSqm))
		fmt.Fprintf(&b, "🏠 Комнат: %s\n", formatRooms(r.RoomsCount))
		fmt.Fprintf(&b, "🏗️ Статус: %s\n", r.Status)
		fmt.Fprintf(&b, "🏢 Застройщик: %s\n\n", orUnknown(r.DeveloperName, "не указан"))
	}
	return b.String()
}

// FallbackMessage composes the reply used when the external model is
// unavailable or failed. Same information, different prose.
func (c *Composer) FallbackMessage(results []model.MatchResult, exact bool) string {
	if len(results) == 0 {
		return "По вашим критериям подходящих объектов не найдено. Попробуем расширить поиск или изменить параметры?"
	}

	var b strings.Builder
	if exact {
		fmt.Fprintf(&b, "Нашел %d подходящих объектов:\n\n", len(results))
	} else {
		fmt.Fprintf(&b, "Точных совпадений нет, показываю %d похожих вариантов:\n\n", len(results))
	}

	limit := c.compactLimit
	if limit > len(results) {
		limit = len(results)
	}
	for i := 0; i < limit; i++ {
		r := results[i]
		fmt.Fprintf(&b, "%d. %s\n", i+1, displayName(r))
		fmt.Fprintf(&b, "   📍 %s\n", r.Address)
		fmt.Fprintf(&b, "   💰 %s\n\n", r.FormattedPrice)
	}
	b.WriteString("Хотите узнать подробности о каком-то из этих объектов?")
	return b.String()
}

func displayName(r model.MatchResult) string {
	if r.ProjectName != "" {
		return r.Name
	}
	return orUnknown(r.PropertyType, "Недвижимость")
}

func formatArea(area *float64) string {
	if area == nil {
		return "не указана"
	}
	return fmt.Sprintf("%.1f м²", *area)
}

func formatRooms(rooms *int) string {
	if rooms == nil {
		return "не указано"
	}
	if *rooms == 0 {
		return "студия"
	}
	return fmt.Sprintf("%d", *rooms)
}

func orUnknown(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
