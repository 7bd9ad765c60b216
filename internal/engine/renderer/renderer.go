// Package renderer draws baked strokes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/strokereveal/internal/engine/shader"
	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [4]float32
}

// Renderer draws line strips and points in a 2D orthographic view.
type Renderer struct {
	config Config

	program    *shader.Program
	projection math.Mat4

	vao uint32
	vbo uint32

	// Reused upload buffer
	vertices []float32
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		projection: math.Identity(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	var err error
	r.program, err = shader.Compile(lineSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("line renderer created",
		zap.Uint32("program", r.program.ID),
		zap.Uint32("vao", r.vao),
		zap.Uint32("vbo", r.vbo),
	)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	return aspect(r.config.Width, r.config.Height)
}

// SetProjection sets the projection used by subsequent draws.
func (r *Renderer) SetProjection(m math.Mat4) {
	r.projection = m
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uProjection"), 1, false, r.projection.Ptr())
	gl.BindVertexArray(r.vao)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
}

// DrawStrip draws points as a connected line, closing it when loop is set.
func (r *Renderer) DrawStrip(points []math.Vec3, loop bool, color [4]float32, width float32) {
	if len(points) < 2 {
		return
	}
	mode := uint32(gl.LINE_STRIP)
	if loop {
		mode = gl.LINE_LOOP
	}
	gl.LineWidth(clampLineWidth(width))
	r.draw(mode, points, color, 1)
}

// DrawPoints draws each point as a square of size pixels.
func (r *Renderer) DrawPoints(points []math.Vec3, color [4]float32, size float32) {
	if len(points) == 0 {
		return
	}
	r.draw(gl.POINTS, points, color, size)
}

func (r *Renderer) draw(mode uint32, points []math.Vec3, color [4]float32, pointSize float32) {
	r.vertices = packVertices(r.vertices[:0], points)

	gl.Uniform4f(r.program.Uniform("uColor"), color[0], color[1], color[2], color[3])
	gl.Uniform1f(r.program.Uniform("uPointSize"), pointSize)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.vertices)*4, unsafe.Pointer(&r.vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(points)))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// packVertices appends the xyz components of points to dst.
func packVertices(dst []float32, points []math.Vec3) []float32 {
	for _, p := range points {
		dst = append(dst, p.X, p.Y, p.Z)
	}
	return dst
}

// clampLineWidth keeps a width in the range every core profile accepts.
func clampLineWidth(w float32) float32 {
	if !(w >= 1) {
		return 1
	}
	if w > 10 {
		return 10
	}
	return w
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// ReadPixels reads the current framebuffer into dst as bottom-up RGBA rows
// and returns it with the framebuffer size.
func (r *Renderer) ReadPixels(dst []byte) ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	n := w * h * 4
	if n <= 0 {
		return dst[:0], 0, 0
	}
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	return dst, w, h
}
