package renderer

import (
	"fmt"
	"math"

	"github.com/prism-rt/prism/pkg/core"
)

// CameraConfig contains camera setup parameters
type CameraConfig struct {
	Center        core.Point // Camera position (look-from point)
	LookAt        core.Point // Point the camera looks at
	Up            core.Vec3  // World up hint for the camera basis
	Width         int        // Image width in pixels
	AspectRatio   float64    // Width over height
	VFov          float64    // Vertical field of view in degrees
	DefocusAngle  float64    // Apex angle of the defocus cone in degrees, 0 for a pinhole
	FocusDistance float64    // Distance from Center to the plane of perfect focus
}

// DefaultCameraConfig returns a pinhole camera looking down the negative Z axis
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Center:        core.NewPoint(0, 0, 0),
		LookAt:        core.NewPoint(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   16.0 / 9.0,
		VFov:          90.0,
		DefocusAngle:  0,
		FocusDistance: 1.0,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base.
// A zero-valued field in override keeps the base value, so an override
// cannot move the camera to the exact origin or zero out a field.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	zero := core.Vec3{}
	if override.Center != zero {
		merged.Center = override.Center
	}
	if override.LookAt != zero {
		merged.LookAt = override.LookAt
	}
	if override.Up != zero {
		merged.Up = override.Up
	}
	if override.Width != 0 {
		merged.Width = override.Width
	}
	if override.AspectRatio != 0 {
		merged.AspectRatio = override.AspectRatio
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		merged.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		merged.FocusDistance = override.FocusDistance
	}
	return merged
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("camera width must be positive, got %d", c.Width)
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("camera aspect ratio must be positive, got %g", c.AspectRatio)
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		return fmt.Errorf("camera vertical FOV must be in (0, 180) degrees, got %g", c.VFov)
	}
	if c.FocusDistance <= 0 {
		return fmt.Errorf("camera focus distance must be positive, got %g", c.FocusDistance)
	}
	if c.DefocusAngle < 0 {
		return fmt.Errorf("camera defocus angle must be non-negative, got %g", c.DefocusAngle)
	}
	viewDir := c.Center.Subtract(c.LookAt)
	if viewDir.NearZero() {
		return fmt.Errorf("camera center and look-at point coincide")
	}
	if c.Up.Cross(viewDir).NearZero() {
		return fmt.Errorf("camera up vector is parallel to the view direction")
	}
	return nil
}

// Camera maps pixel coordinates to primary rays through a virtual viewport
type Camera struct {
	config       CameraConfig
	center       core.Point // Ray origin for pinhole rays
	pixel00      core.Point // Center of the top-left pixel
	pixelDeltaU  core.Vec3  // Offset between horizontally adjacent pixels
	pixelDeltaV  core.Vec3  // Offset between vertically adjacent pixels
	u, v, w      core.Vec3  // Camera basis: u right, v up, w opposite the view direction
	defocusDiskU core.Vec3  // Defocus disk horizontal radius vector
	defocusDiskV core.Vec3  // Defocus disk vertical radius vector
	imageHeight  int
}

// NewCamera precomputes the viewport geometry for the given configuration
func NewCamera(config CameraConfig) *Camera {
	imageHeight := int(float64(config.Width) / config.AspectRatio)
	if imageHeight < 1 {
		imageHeight = 1
	}

	center := config.Center

	// Viewport dimensions at the focus distance, so defocus rays converge there
	theta := degreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDistance
	viewportWidth := viewportHeight * (float64(config.Width) / float64(imageHeight))

	// Orthonormal basis: w points from LookAt back toward the camera
	w := center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Viewport edge vectors, V pointing down the image
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.Width))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(config.FocusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDistance * math.Tan(degreesToRadians(config.DefocusAngle)/2)

	return &Camera{
		config:       config,
		center:       center,
		pixel00:      pixel00,
		pixelDeltaU:  pixelDeltaU,
		pixelDeltaV:  pixelDeltaV,
		u:            u,
		v:            v,
		w:            w,
		defocusDiskU: u.Multiply(defocusRadius),
		defocusDiskV: v.Multiply(defocusRadius),
		imageHeight:  imageHeight,
	}
}

// GetRay returns a ray through a jittered sample point inside pixel (i, j).
// With a positive defocus angle the origin is drawn from the defocus disk,
// which blurs everything off the focus plane.
func (c *Camera) GetRay(i, j int, sampler core.Sampler) core.Ray {
	offset := sampler.Get2D()
	pixelSample := c.pixel00.
		Add(c.pixelDeltaU.Multiply(float64(i) + offset.X - 0.5)).
		Add(c.pixelDeltaV.Multiply(float64(j) + offset.Y - 0.5))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Point {
	p := core.RandomInUnitDisk(sampler)
	return c.center.
		Add(c.defocusDiskU.Multiply(p.X)).
		Add(c.defocusDiskV.Multiply(p.Y))
}

// GetCameraForward returns the unit view direction
func (c *Camera) GetCameraForward() core.Vec3 {
	return c.w.Negate()
}

// ImageWidth returns the configured image width in pixels
func (c *Camera) ImageWidth() int {
	return c.config.Width
}

// ImageHeight returns the image height derived from width and aspect ratio
func (c *Camera) ImageHeight() int {
	return c.imageHeight
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
