package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/holiday"
	"github.com/manzoomehweb/bookingcal/pkg/buildinfo"
	"github.com/manzoomehweb/bookingcal/pkg/middleware"
)

// RegisterRoutes registers all API routes.
func RegisterRoutes(router *gin.Engine, sessions *SessionManager, holidays *holiday.Registry) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": sessions.Count(),
			"build":    buildinfo.Info(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", CreateSession(sessions))
		v1.DELETE("/sessions/:id", DeleteSession(sessions))

		s := v1.Group("/sessions/:id")
		{
			s.POST("/open", OpenPicker(sessions))
			s.POST("/close", ClosePicker(sessions))
			s.POST("/select", SelectDate(sessions))
			s.POST("/hover", Hover(sessions))
			s.POST("/leave", Leave(sessions))
			s.POST("/navigate", NavigateMonth(sessions))
			s.POST("/mode", SetCalendarMode(sessions))
			s.POST("/today", Today(sessions))
			s.POST("/clear", Clear(sessions))
			s.POST("/reset-return", ResetReturn(sessions))
			s.GET("/dates/:context", GetDates(sessions))
			s.GET("/month", GetMonth(sessions))
			s.GET("/events", StreamEvents(sessions))
		}

		v1.GET("/calendar/convert", ConvertDate())
		v1.GET("/holidays/:year/:month", GetHolidays(holidays))
	}
}

// ConvertDate converts a single date between the two calendar systems.
func ConvertDate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sys, err := calendar.ParseSystem(c.DefaultQuery("system", "jalali"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		year, err1 := strconv.Atoi(c.Query("year"))
		month, err2 := strconv.Atoi(c.Query("month"))
		day, err3 := strconv.Atoi(c.Query("day"))
		if err1 != nil || err2 != nil || err3 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year, month and day must be integers"})
			return
		}

		d := calendar.Date{Year: year, Month: month, Day: day, System: sys}
		if !d.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidDate.Error()})
			return
		}

		other := calendar.Gregorian
		if sys == calendar.Gregorian {
			other = calendar.Jalali
		}
		conv := d.In(other)
		c.JSON(http.StatusOK, gin.H{
			"input":     wireFromDate(&d),
			"converted": wireFromDate(&conv),
			"iso":       d.ISO(),
			"day_key":   d.DayKey(),
		})
	}
}

// GetHolidays lists the holiday annotations of one Jalali month from the
// server-level registry.
func GetHolidays(holidays *holiday.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err1 := strconv.Atoi(c.Param("year"))
		month, err2 := strconv.Atoi(c.Param("month"))
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year and month must be valid integers"})
			return
		}

		type entry struct {
			Day  int    `json:"day"`
			Name string `json:"name"`
		}
		var out []entry
		for day := 1; day <= calendar.MonthLength(year, month); day++ {
			if res := holidays.Lookup(year, month, day); res.IsHoliday {
				out = append(out, entry{Day: day, Name: res.Name})
			}
		}
		c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "holidays": out})
	}
}
