// Package gpu hosts an OpenGL 4.1 core context in an SDL2 window and
// uploads meshes and pixel buffers into it.
package gpu

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gfx/internal/logger"
	"github.com/Faultbox/midgard-gfx/pkg/mesh"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds the context window settings.
type Config struct {
	Title  string
	Width  int
	Height int
	Hidden bool
	VSync  bool
}

// Context is an SDL2 window with a current OpenGL context. Primitive
// restart is enabled with mesh.RestartIndex so uploaded line strips keep
// their loops apart.
type Context struct {
	config    Config
	window    *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger
}

// NewContext creates the window and makes its GL context current.
func NewContext(cfg Config) (*Context, error) {
	c := &Context{config: cfg, log: logger.Named("gpu")}

	c.log.Debug("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 core is the newest macOS offers
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL)
	if cfg.Hidden {
		flags |= sdl.WINDOW_HIDDEN
	}

	var err error
	c.window, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	c.glContext, err = c.window.GLCreateContext()
	if err != nil {
		c.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		c.Close()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		c.log.Warn("failed to set swap interval", zap.Error(err))
	}

	gl.Enable(gl.PRIMITIVE_RESTART)
	gl.PrimitiveRestartIndex(mesh.RestartIndex)

	c.log.Info("context created",
		zap.String("gl_version", c.Version()),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("hidden", cfg.Hidden),
	)
	return c, nil
}

// Version returns the GL_VERSION string of the current context.
func (c *Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// CheckError returns the first pending GL error, if any.
func (c *Context) CheckError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04x", op, code)
	}
	return nil
}

// Close destroys the context and window and shuts SDL2 down.
func (c *Context) Close() {
	c.log.Debug("closing context")

	if c.glContext != nil {
		sdl.GLDeleteContext(c.glContext)
		c.glContext = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
}
