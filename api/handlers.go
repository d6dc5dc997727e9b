package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/picker"
)

// wireDate is the date triple as the UI sends it. System defaults to jalali.
type wireDate struct {
	System string `json:"system,omitempty"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
}

func (w wireDate) toDate() (calendar.Date, error) {
	sys := calendar.Jalali
	if w.System != "" {
		var err error
		if sys, err = calendar.ParseSystem(w.System); err != nil {
			return calendar.Date{}, err
		}
	}
	d := calendar.Date{Year: w.Year, Month: w.Month, Day: w.Day, System: sys}
	if !d.Valid() {
		return calendar.Date{}, errInvalidDate
	}
	return d, nil
}

var errInvalidDate = &invalidDateError{}

type invalidDateError struct{}

func (*invalidDateError) Error() string { return "date is not a valid day in its calendar system" }

func wireFromDate(d *calendar.Date) *wireDate {
	if d == nil {
		return nil
	}
	return &wireDate{System: d.System.String(), Year: d.Year, Month: d.Month, Day: d.Day}
}

type previewResponse struct {
	From wireDate `json:"from"`
	To   wireDate `json:"to"`
}

func previewBody(p picker.Preview, ok bool) gin.H {
	if !ok {
		return gin.H{"preview": nil}
	}
	return gin.H{"preview": previewResponse{
		From: *wireFromDate(&p.From),
		To:   *wireFromDate(&p.To),
	}}
}

// session resolves the :id param or writes a 404.
func session(m *SessionManager, c *gin.Context) (*Session, bool) {
	s, ok := m.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	}
	return s, ok
}

// CreateSession starts a picker session.
func CreateSession(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Create()
		c.JSON(http.StatusCreated, gin.H{"id": s.ID})
	}
}

// DeleteSession ends a picker session.
func DeleteSession(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.Delete(c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

type openRequest struct {
	Context       string  `json:"context" binding:"required"`
	Role          string  `json:"role" binding:"required"`
	HasReturn     bool    `json:"has_return"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	PriceEligible bool    `json:"price_eligible"`
	Constraint    *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"constraint"`
}

// OpenPicker activates the picker for a field.
func OpenPicker(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		var req openRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		role, err := picker.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		f := picker.Field{
			Context:       picker.ContextKey(req.Context),
			Role:          role,
			HasReturn:     req.HasReturn,
			Origin:        req.Origin,
			Destination:   req.Destination,
			PriceEligible: req.PriceEligible,
		}
		if req.Constraint != nil {
			f.Constraint = &picker.Constraint{
				Start: picker.ContextKey(req.Constraint.Start),
				End:   picker.ContextKey(req.Constraint.End),
			}
		}

		s.Controller.Open(f)
		c.JSON(http.StatusOK, gin.H{"status": "open"})
	}
}

// ClosePicker deactivates the picker without touching stored dates.
func ClosePicker(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		s.Controller.Close()
		c.JSON(http.StatusOK, gin.H{"status": "closed"})
	}
}

type selectRequest struct {
	Role string   `json:"role" binding:"required"`
	Date wireDate `json:"date" binding:"required"`
}

// SelectDate applies a click on a calendar cell.
func SelectDate(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		var req selectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		role, err := picker.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := req.Date.toDate()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := s.Controller.SelectDate(role, d)
		key := s.Controller.ActiveField().Context
		dep, ret := s.Controller.Dates(key)
		c.JSON(http.StatusOK, gin.H{
			"applied":      res.Applied,
			"auto_advance": res.AutoAdvance,
			"depart":       wireFromDate(dep),
			"return":       wireFromDate(ret),
		})
	}
}

type hoverRequest struct {
	Date wireDate `json:"date" binding:"required"`
}

// Hover reports the preview range for a hovered cell.
func Hover(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		var req hoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := req.Date.toDate()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p, ok := s.Controller.Hover(d)
		c.JSON(http.StatusOK, previewBody(p, ok))
	}
}

// Leave applies the pointer-leave rule.
func Leave(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		p, ok := s.Controller.Leave()
		c.JSON(http.StatusOK, previewBody(p, ok))
	}
}

type navigateRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// NavigateMonth moves the visible month.
func NavigateMonth(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		var req navigateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.Controller.NavigateMonth(req.Delta)
		y, mo, sys := s.Controller.VisibleMonth()
		c.JSON(http.StatusOK, gin.H{"year": y, "month": mo, "system": sys.String()})
	}
}

type modeRequest struct {
	System string `json:"system" binding:"required"`
}

// SetCalendarMode switches the display calendar.
func SetCalendarMode(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		var req modeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sys, err := calendar.ParseSystem(req.System)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.Controller.SetCalendarMode(sys)
		y, mo, _ := s.Controller.VisibleMonth()
		c.JSON(http.StatusOK, gin.H{"year": y, "month": mo, "system": sys.String()})
	}
}

// Today selects the current day for the active role.
func Today(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		res := s.Controller.Today()
		c.JSON(http.StatusOK, gin.H{"applied": res.Applied})
	}
}

// Clear resets the active context.
func Clear(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		s.Controller.Clear()
		c.Status(http.StatusNoContent)
	}
}

// ResetReturn drops only the return date of the active context, used when
// the trip type switches to one-way.
func ResetReturn(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		s.Controller.ResetReturn()
		c.Status(http.StatusNoContent)
	}
}

// GetDates returns the selected pair for a context.
func GetDates(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}

		dep, ret := s.Controller.Dates(picker.ContextKey(c.Param("context")))
		body := gin.H{"depart": nil, "return": nil}
		if dep != nil {
			body["depart"] = gin.H{"date": wireFromDate(dep), "iso": dep.ISO()}
		}
		if ret != nil {
			body["return"] = gin.H{"date": wireFromDate(ret), "iso": ret.ISO()}
		}
		c.JSON(http.StatusOK, body)
	}
}

// GetMonth returns the render model for the visible month.
func GetMonth(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session(m, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Controller.Grid())
	}
}
