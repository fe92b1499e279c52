// Package apitest provides an in-process stand-in for the tracker API so
// client and session tests can run against real HTTP.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/SID01AV/productivity-tracker/internal/models"
)

var jwtKey = []byte("apitest-signing-key")

type userRecord struct {
	user         models.User
	passwordHash string
}

type logRecord struct {
	completed     bool
	pointsAwarded int
}

// Server mimics the tracker backend: form-encoded login issuing a JWT,
// JSON endpoints guarded by a bearer middleware, and FastAPI-shaped
// {"detail": ...} error bodies.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	users      map[string]*userRecord
	nextUserID int
	nextLogID  int
	nextFsID   int
	tasks      []models.Task
	today      string
	// username -> taskID -> record
	logs map[string]map[int]logRecord
	// username -> friendships
	friends map[string][]models.Friendship

	failNext bool
}

func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		users:   make(map[string]*userRecord),
		logs:    make(map[string]map[int]logRecord),
		friends: make(map[string][]models.Friendship),
		today:   time.Now().Format(models.DateFormat),
	}

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		s.mu.Lock()
		fail := s.failNext
		s.failNext = false
		s.mu.Unlock()
		if fail {
			c.AbortWithStatus(http.StatusInternalServerError)
		}
	})

	engine.POST("/api/auth/login", s.handleLogin)
	engine.POST("/api/auth/register", s.handleRegister)

	authed := engine.Group("/api", s.requireAuth)
	authed.GET("/auth/me", s.handleMe)
	authed.GET("/tasks/daily", s.handleDaily)
	authed.POST("/daily-logs", s.handleUpsertLog)
	authed.GET("/leaderboard", s.handleLeaderboard)
	authed.GET("/friends", s.handleFriends)
	authed.POST("/friends", s.handleAddFriend)
	authed.GET("/stats/summary", s.handleStats)

	s.srv = httptest.NewServer(engine)
	return s
}

func (s *Server) URL() string { return s.srv.URL }
func (s *Server) Close()      { s.srv.Close() }

// Today returns the server's notion of the current date.
func (s *Server) Today() string { return s.today }

// SetFailNext makes the next request return 500 with an empty body.
func (s *Server) SetFailNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = true
}

// SetToday overrides the server's current date.
func (s *Server) SetToday(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = date
}

// AddUser seeds an account with a bcrypt-hashed password.
func (s *Server) AddUser(username, password, email string) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	u := models.User{ID: s.nextUserID, Username: username, Email: email}
	s.users[username] = &userRecord{user: u, passwordHash: string(hash)}
	return u
}

// AddTask seeds a task, assigning its ID.
func (s *Server) AddTask(name string, points int) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := models.Task{
		ID:       len(s.tasks) + 1,
		Name:     name,
		Code:     fmt.Sprintf("task-%d", len(s.tasks)+1),
		Points:   points,
		IsActive: true,
	}
	s.tasks = append(s.tasks, task)
	return task
}

// CompletedToday reports the stored completion state for (username, taskID).
func (s *Server) CompletedToday(username string, taskID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs[username][taskID].completed
}

func (s *Server) issueToken(username string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtKey)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) requireAuth(c *gin.Context) {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(header[len(prefix):], claims, func(*jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	username, _ := claims["sub"].(string)
	s.mu.Lock()
	rec, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.Set("user", rec.user)
	c.Next()
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	s.mu.Lock()
	rec, ok := s.users[username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(rec.passwordHash), []byte(password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": s.issueToken(username),
		"token_type":   "bearer",
		"user":         rec.user,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payload"})
		return
	}

	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username or email already registered"})
		return
	}

	u := s.AddUser(req.Username, req.Password, req.Email)
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (s *Server) handleDaily(c *gin.Context) {
	user := currentUser(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]models.DailyLogEntry, 0, len(s.tasks))
	for _, task := range s.tasks {
		rec := s.logs[user.Username][task.ID]
		entries = append(entries, models.DailyLogEntry{
			Task:          task,
			Date:          s.today,
			Completed:     rec.completed,
			PointsAwarded: rec.pointsAwarded,
		})
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleUpsertLog(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		TaskID    int    `json:"task_id"`
		Date      string `json:"date"`
		Completed bool   `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var task models.Task
	found := false
	for _, t := range s.tasks {
		if t.ID == req.TaskID {
			task, found = t, true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}

	points := 0
	if req.Completed {
		points = task.Points
	}
	if s.logs[user.Username] == nil {
		s.logs[user.Username] = make(map[int]logRecord)
	}
	s.logs[user.Username][req.TaskID] = logRecord{completed: req.Completed, pointsAwarded: points}
	s.nextLogID++

	c.JSON(http.StatusOK, models.DailyLogEntry{
		Task:          task,
		Date:          req.Date,
		Completed:     req.Completed,
		PointsAwarded: points,
	})
}

func parseRangeParam(c *gin.Context) (models.Range, bool) {
	r, err := models.ParseRange(c.DefaultQuery("range", "weekly"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return "", false
	}
	return r, true
}

func (s *Server) handleLeaderboard(c *gin.Context) {
	user := currentUser(c)
	if _, ok := parseRangeParam(c); !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members := []models.User{user}
	for _, fs := range s.friends[user.Username] {
		members = append(members, fs.Friend)
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		total := 0
		for _, rec := range s.logs[m.Username] {
			total += rec.pointsAwarded
		}
		entries = append(entries, models.LeaderboardEntry{
			UserID:      m.ID,
			Username:    m.Username,
			TotalPoints: total,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleFriends(c *gin.Context) {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.friends[user.Username]
	if list == nil {
		list = []models.Friendship{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddFriend(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		FriendUsername string `json:"friend_username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[req.FriendUsername]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Friend user not found"})
		return
	}
	if rec.user.ID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You cannot add yourself as a friend"})
		return
	}
	for _, fs := range s.friends[user.Username] {
		if fs.Friend.ID == rec.user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Already friends"})
			return
		}
	}

	s.nextFsID++
	fs := models.Friendship{ID: s.nextFsID, Friend: rec.user}
	s.friends[user.Username] = append(s.friends[user.Username], fs)
	c.JSON(http.StatusOK, fs)
}

func (s *Server) handleStats(c *gin.Context) {
	user := currentUser(c)
	r, ok := parseRangeParam(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	end, err := time.Parse(models.DateFormat, s.today)
	if err != nil {
		end = time.Now()
	}
	start := end
	switch r {
	case models.RangeWeekly:
		start = end.AddDate(0, 0, -6)
	case models.RangeMonthly:
		start = end.AddDate(0, -1, 0)
	}

	total := 0
	for _, rec := range s.logs[user.Username] {
		total += rec.pointsAwarded
	}

	byDate := []models.StatsByDate{}
	if total > 0 {
		byDate = append(byDate, models.StatsByDate{Date: s.today, Points: total})
	}

	c.JSON(http.StatusOK, models.StatsSummary{
		StartDate:   start.Format(models.DateFormat),
		EndDate:     end.Format(models.DateFormat),
		TotalPoints: total,
		ByDate:      byDate,
	})
}
