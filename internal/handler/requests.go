package handler

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/service"
	"github.com/iliyamo/game-club-manager/internal/utils"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

func statusValues() []interface{} {
	out := make([]interface{}, len(model.Statuses))
	for i, s := range model.Statuses {
		out[i] = string(s)
	}
	return out
}

func categoryValues() []interface{} {
	out := make([]interface{}, len(model.Categories))
	for i, c := range model.Categories {
		out[i] = string(c)
	}
	return out
}

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // STAFF | MANAGER
}

func (r *registerReq) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(utils.MinPasswordLength, 72)),
		validation.Field(&r.FullName, validation.Length(0, 255)),
		validation.Field(&r.Role, validation.In(model.RoleStaff, model.RoleManager)),
	)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginReq) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *refreshReq) Validate() error {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type createReservationReq struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email"`
	Date          string  `json:"reservation_date"`
	Time          string  `json:"reservation_time"`
	PartySize     *int    `json:"party_size"`
	Notes         *string `json:"notes"`
}

func (r *createReservationReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CustomerName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.CustomerPhone, validation.Length(0, 64)),
		validation.Field(&r.CustomerEmail, is.Email),
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Time, validation.Required, validation.Match(timeOfDayPattern)),
		validation.Field(&r.PartySize, validation.Min(1)),
	)
}

func (r *createReservationReq) toNewReservation() (service.NewReservation, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return service.NewReservation{}, err
	}
	tod, err := model.ParseTimeOfDay(r.Time)
	if err != nil {
		return service.NewReservation{}, err
	}
	in := service.NewReservation{
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Date:          date,
		Time:          tod,
		Notes:         r.Notes,
	}
	if r.PartySize != nil {
		in.PartySize = *r.PartySize
		if in.PartySize == 0 {
			return service.NewReservation{}, model.InvalidArgumentf("party size must be at least 1")
		}
	}
	return in, nil
}

type statusReq struct {
	Status string `json:"status"`
}

func (r *statusReq) Validate() error {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required, validation.In(statusValues()...)),
	)
}

type assignGameReq struct {
	GameID string `json:"game_id"`
}

func (r *assignGameReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GameID, validation.Required.Error("no game selected"), is.UUID),
	)
}

type addOrderReq struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   *int   `json:"quantity"`
}

func (r *addOrderReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MenuItemID, validation.Required.Error("no menu item selected"), is.UUID),
	)
}

// quantity defaults to 1 when omitted; range checks happen in the service.
func (r *addOrderReq) quantity() int {
	if r.Quantity == nil {
		return model.DefaultQuantity
	}
	return *r.Quantity
}

type updateOrderReq struct {
	Quantity *int `json:"quantity"`
}

func (r *updateOrderReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.NotNil),
	)
}

type gameReq struct {
	Name            string  `json:"name"`
	MinPlayers      *int    `json:"min_players"`
	MaxPlayers      *int    `json:"max_players"`
	DurationMinutes *int    `json:"duration_minutes"`
	Complexity      *string `json:"complexity"`
	Description     *string `json:"description"`
	Available       *bool   `json:"available"`
}

func (r *gameReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Complexity, validation.Length(0, 64)),
	)
}

func (r *gameReq) toGame() model.Game {
	g := model.Game{
		Name:            r.Name,
		MinPlayers:      r.MinPlayers,
		MaxPlayers:      r.MaxPlayers,
		DurationMinutes: r.DurationMinutes,
		Complexity:      r.Complexity,
		Description:     r.Description,
		Available:       true,
	}
	if r.Available != nil {
		g.Available = *r.Available
	}
	return g
}

type menuItemReq struct {
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Price     *decimal.Decimal `json:"price"`
	Available *bool            `json:"available"`
}

func (r *menuItemReq) Validate() error {
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Category, validation.Required, validation.In(categoryValues()...)),
		validation.Field(&r.Price, validation.NotNil),
	)
}

func (r *menuItemReq) toMenuItem() model.MenuItem {
	m := model.MenuItem{
		Name:      r.Name,
		Category:  model.Category(r.Category),
		Available: true,
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.Available != nil {
		m.Available = *r.Available
	}
	return m
}

type availabilityReq struct {
	Available *bool `json:"available"`
}

func (r *availabilityReq) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Available, validation.NotNil),
	)
}
