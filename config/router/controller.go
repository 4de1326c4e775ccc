package router

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/skill404/landing/pkg/ratelimit"
)

// routeKey identifies one registered handler, e.g. "POST /v1/waitlist".
type routeKey string

func newRouteKey(method, fullPath string) routeKey {
	return routeKey(method + " " + fullPath)
}

// NewRESTController describes a group of handlers mounted under mountPoint.
// prepare runs once, from MountController, and registers the handlers.
func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return &RESTController{
		name:       name,
		mountPoint: cleanMountPoint(mountPoint),
		prepare:    prepare,
	}
}

// NewVersionedRESTController prefixes the mount point with the API version.
func NewVersionedRESTController(name, version, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	controller := NewRESTController(name, version+"/"+mountPoint, prepare)
	controller.version = version
	return controller
}

func cleanMountPoint(mountPoint string) string {
	return path.Clean("/" + mountPoint)
}

// fullPath joins the controller mount point and a handler path. An empty
// relative path registers the handler on the mount point itself.
func (controller *RESTController) fullPath(relativePath string) string {
	if relativePath == "" {
		return controller.mountPoint
	}
	return path.Join(controller.mountPoint, relativePath)
}

func (routerService *RouterService) register(controller *RESTController, key routeKey, limiter ratelimit.RateLimiter) {
	if other, found := routerService.handlerToControllerMap[key]; found {
		panic(fmt.Sprintf("route %q is already registered by controller %q", key, other.name))
	}
	routerService.handlerToControllerMap[key] = controller

	if limiter != nil {
		routerService.rateLimitOverrides[key] = limiter
	}
}

func (routerService *RouterService) addHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	method string,
	relativePath string,
	handlers []MiddlewareFunc,
) {
	fullPath := controller.fullPath(relativePath)
	routerService.register(controller, newRouteKey(method, fullPath), limiter)
	routerService.engine.Handle(method, fullPath, handlers...)
	controller.handlerCount++

	routerService.logger.Debug("Handler registered", "controller", controller.name, "method", method, "path", fullPath)
}

// envelope adapts a HandlerFunction to gin, writing its ServiceResult as JSON.
func envelope(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)
		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("handler returned no result").ToJSON())
			return
		}
		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	relativePath string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(controller, limiter, http.MethodGet, relativePath, append(middlewares, envelope(handler)))
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	relativePath string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(controller, limiter, http.MethodPost, relativePath, append(middlewares, envelope(handler)))
}

// AddRawHandler registers a handler that writes its own response: HTML
// pages, redirects and payloads that must not be wrapped in a ServiceResult.
func (routerService *RouterService) AddRawHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	method string,
	relativePath string,
	handler MiddlewareFunc,
	middlewares ...MiddlewareFunc,
) {
	method = strings.ToUpper(method)
	routerService.addHandler(controller, limiter, method, relativePath, append(middlewares, handler))
}
