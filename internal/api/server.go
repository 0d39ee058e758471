// Package api wraps a control.Surface behind an HTTP + WebSocket interface.
// The routing itself is a thin adapter, per spec.md §1's framing that
// "HTTP handlers ... are external collaborators that call the core."
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/thereceipt/printcore/internal/control"
	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/jobqueue"
)

// Server is the thin gin router in front of a control.Surface.
type Server struct {
	router   *gin.Engine
	surface  *control.Surface
	jobs     *jobqueue.Queue
	upgrader websocket.Upgrader

	subsMu sync.Mutex
	subs   map[*websocket.Conn]bool
}

// NewServer wires every route named in spec.md §6's control surface onto
// surface, plus a job feed pushed over WebSocket.
func NewServer(surface *control.Surface, jobs *jobqueue.Queue) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	router.Use(corsMiddleware())

	s := &Server{
		router:  router,
		surface: surface,
		jobs:    jobs,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subs: map[*websocket.Conn]bool{},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.POST("/render_preview", s.handleRenderPreview)
	s.router.POST("/print", s.handlePrint)
	s.router.POST("/canvas_layout", s.handleCanvasLayout)
	s.router.GET("/patterns", s.handlePatterns)
	s.router.GET("/patterns/:name/params", s.handlePatternParams)
	s.router.GET("/patterns/:name/random", s.handlePatternRandom)
	s.router.GET("/profile", s.handleGetProfile)
	s.router.POST("/profile", s.handleSetProfile)
	s.router.GET("/profiles", s.handleListProfiles)
	s.router.GET("/job/:id", s.handleGetJob)
	s.router.GET("/ws", s.handleWebSocket)
	s.router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
}

func (s *Server) handleRenderPreview(c *gin.Context) {
	var d document.Document
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	png, err := s.surface.RenderPreview(c.Request.Context(), &d)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.Data(200, "image/png", png)
}

func (s *Server) handlePrint(c *gin.Context) {
	var d document.Document
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	job := s.jobs.Create()
	s.jobs.SetStatus(job.ID, jobqueue.StatusRunning, "")
	s.broadcastJob(job.ID, jobqueue.StatusRunning, "")

	result := s.surface.Print(c.Request.Context(), &d)
	if result.Success {
		s.jobs.SetStatus(job.ID, jobqueue.StatusSucceeded, "")
		s.broadcastJob(job.ID, jobqueue.StatusSucceeded, "")
	} else {
		s.jobs.SetStatus(job.ID, jobqueue.StatusFailed, result.Error)
		s.broadcastJob(job.ID, jobqueue.StatusFailed, result.Error)
	}
	c.JSON(200, gin.H{"job_id": job.ID, "result": result})
}

func (s *Server) handleCanvasLayout(c *gin.Context) {
	var req struct {
		Document    document.Document `json:"document"`
		CanvasIndex int               `json:"canvas_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	layout, err := s.surface.CanvasLayout(c.Request.Context(), &req.Document, req.CanvasIndex)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, layout)
}

func (s *Server) handlePatterns(c *gin.Context) {
	c.JSON(200, gin.H{"patterns": s.surface.Patterns()})
}

func (s *Server) handlePatternParams(c *gin.Context) {
	info, err := s.surface.PatternParams(c.Param("name"))
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, info)
}

func (s *Server) handlePatternRandom(c *gin.Context) {
	info, err := s.surface.PatternRandom(c.Param("name"), 0)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, info)
}

func (s *Server) handleGetProfile(c *gin.Context) {
	c.JSON(200, s.surface.GetActiveProfile())
}

func (s *Server) handleSetProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "name is required"})
		return
	}
	p, err := s.surface.SetActiveProfile(req.Name)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, p)
}

func (s *Server) handleListProfiles(c *gin.Context) {
	c.JSON(200, gin.H{"profiles": s.surface.ListProfiles()})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job, ok := s.jobs.Get(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	c.JSON(200, job)
}

// handleWebSocket upgrades to a push feed of job status changes.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.subsMu.Lock()
	s.subs[conn] = true
	s.subsMu.Unlock()

	defer func() {
		s.subsMu.Lock()
		delete(s.subs, conn)
		s.subsMu.Unlock()
		conn.Close()
	}()

	// Drain reads so ping/pong and close frames are processed; this feed
	// is server-to-client only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcastJob(id string, status jobqueue.Status, errMsg string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	msg := gin.H{"job_id": id, "status": status}
	if errMsg != "" {
		msg["error"] = errMsg
	}
	for conn := range s.subs {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(s.subs, conn)
		}
	}
}

// Run starts the HTTP server, blocking until it exits or ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
