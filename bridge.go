package avapibridge

import (
	adapterpkg "github.com/vyrodovalexey/avapibridge/internal/adapter"
	cachepkg "github.com/vyrodovalexey/avapibridge/internal/cache"
	configpkg "github.com/vyrodovalexey/avapibridge/internal/config"
	messagepkg "github.com/vyrodovalexey/avapibridge/internal/message"
	middlewarepkg "github.com/vyrodovalexey/avapibridge/internal/middleware"
	obspkg "github.com/vyrodovalexey/avapibridge/internal/observability"
	pipelinepkg "github.com/vyrodovalexey/avapibridge/internal/pipeline"
	schemapkg "github.com/vyrodovalexey/avapibridge/internal/schema"
	secretspkg "github.com/vyrodovalexey/avapibridge/internal/secrets"
	serializerpkg "github.com/vyrodovalexey/avapibridge/internal/serializer"
	utilpkg "github.com/vyrodovalexey/avapibridge/internal/util"
)

type (
	// Data model
	Request        = messagepkg.Request
	RequestOption  = messagepkg.RequestOption
	Response       = messagepkg.Response
	ResponseOption = messagepkg.ResponseOption
	Message        = messagepkg.Message
	Headers        = messagepkg.Headers

	// Serialization
	Serializer     = serializerpkg.Serializer
	Registry       = serializerpkg.Registry
	RegistryOption = serializerpkg.RegistryOption

	// Pipeline
	Pipeline       = pipelinepkg.Pipeline
	PipelineOption = pipelinepkg.Option
	Middleware     = pipelinepkg.Middleware
	Funcs          = pipelinepkg.Funcs

	// Built-in middlewares
	LoggingMiddleware      = middlewarepkg.LoggingMiddleware
	LoggingOption          = middlewarepkg.LoggingOption
	MetricsMiddleware      = middlewarepkg.MetricsMiddleware
	MetricsOption          = middlewarepkg.MetricsOption
	AuthMiddleware         = middlewarepkg.AuthMiddleware
	AuthOption             = middlewarepkg.AuthOption
	ErrorHandlerMiddleware = middlewarepkg.ErrorHandlerMiddleware
	ErrorHandlerOption     = middlewarepkg.ErrorHandlerOption
	RecoveryFunc           = middlewarepkg.RecoveryFunc
	RateLimitMiddleware    = middlewarepkg.RateLimitMiddleware
	RateLimitOption        = middlewarepkg.RateLimitOption
	CacheMiddleware        = middlewarepkg.CacheMiddleware
	CacheOption            = middlewarepkg.CacheOption
	ConditionalMiddleware  = middlewarepkg.ConditionalMiddleware
	ConditionalOption      = middlewarepkg.ConditionalOption

	// Protocol adapters
	WebSocketAdapter       = adapterpkg.WebSocketAdapter
	WebSocketAdapterOption = adapterpkg.WebSocketAdapterOption
	WebSocketBridge        = adapterpkg.WebSocketBridge
	WebSocketBridgeOption  = adapterpkg.WebSocketBridgeOption
	BridgeHandler          = adapterpkg.BridgeHandler
	GraphQLAdapter         = adapterpkg.GraphQLAdapter
	GraphQLAdapterOption   = adapterpkg.GraphQLAdapterOption
	GraphQLResult          = adapterpkg.GraphQLResult
	LegacyAdapter          = adapterpkg.LegacyAdapter
	LegacyAdapterOption    = adapterpkg.LegacyAdapterOption
	RemoteExecutor         = adapterpkg.RemoteExecutor
	RemoteExecutorOption   = adapterpkg.RemoteExecutorOption

	// Schema validation and conversion
	Document         = schemapkg.Document
	DocumentCallback = schemapkg.DocumentCallback
	ErrorCallback    = schemapkg.ErrorCallback
	Validator        = schemapkg.Validator
	ValidationResult = schemapkg.Result
	PayloadValidator = schemapkg.PayloadValidator
	Watcher          = schemapkg.Watcher
	WatcherOption    = schemapkg.WatcherOption

	// Configuration
	Source          = configpkg.Source
	MapSource       = configpkg.MapSource
	FileSource      = configpkg.FileSource
	StructSource    = configpkg.StructSource
	Duration        = configpkg.Duration
	AuthConfig      = configpkg.AuthConfig
	CacheConfig     = configpkg.CacheConfig
	GraphQLConfig   = configpkg.GraphQLConfig
	LegacyConfig    = configpkg.LegacyConfig
	RateLimitConfig = configpkg.RateLimitConfig
	RedisConfig     = configpkg.RedisConfig
	ValidatorConfig = configpkg.ValidatorConfig
	WatcherConfig   = configpkg.WatcherConfig
	WebSocketConfig = configpkg.WebSocketConfig

	// Cache stores
	Cache          = cachepkg.Cache
	CacheWithStats = cachepkg.CacheWithStats
	CacheStats     = cachepkg.CacheStats

	// Secrets providers
	SecretsProvider      = secretspkg.Provider
	Secret               = secretspkg.Secret
	ProviderConfig       = secretspkg.ProviderConfig
	ProviderType         = secretspkg.ProviderType
	StaticProvider       = secretspkg.StaticProvider
	StaticProviderConfig = secretspkg.StaticProviderConfig
	EnvProvider          = secretspkg.EnvProvider
	EnvProviderConfig    = secretspkg.EnvProviderConfig
	VaultProvider        = secretspkg.VaultProvider
	VaultProviderConfig  = secretspkg.VaultProviderConfig
	CachingProvider      = secretspkg.CachingProvider

	// Error taxonomy
	ValidationError = utilpkg.ValidationError
	AdaptationError = utilpkg.AdaptationError
	FormatError     = utilpkg.FormatError
	PipelineError   = utilpkg.PipelineError

	// Observability
	Logger          = obspkg.Logger
	Field           = obspkg.Field
	LogConfig       = obspkg.LogConfig
	Tracer          = obspkg.Tracer
	TracerConfig    = obspkg.TracerConfig
	OTLPRetryConfig = obspkg.OTLPRetryConfig
)

var (
	// Data model
	NewRequest          = messagepkg.NewRequest
	NewResponse         = messagepkg.NewResponse
	NewMessage          = messagepkg.NewMessage
	NewHeaders          = messagepkg.NewHeaders
	HeadersFromMap      = messagepkg.HeadersFromMap
	WithHeader          = messagepkg.WithHeader
	WithHeaders         = messagepkg.WithHeaders
	WithBody            = messagepkg.WithBody
	WithRequest         = messagepkg.WithRequest
	WithResponseHeader  = messagepkg.WithResponseHeader
	WithResponseHeaders = messagepkg.WithResponseHeaders
	WithResponseBody    = messagepkg.WithResponseBody

	// Serialization
	NewRegistry          = serializerpkg.NewRegistry
	WithRegistryLogger   = serializerpkg.WithLogger
	NewJSON              = serializerpkg.NewJSON
	NewMessagePack       = serializerpkg.NewMessagePack
	NewCBOR              = serializerpkg.NewCBOR
	NewYAML              = serializerpkg.NewYAML
	NewProtobuf          = serializerpkg.NewProtobuf
	NewUnavailable       = serializerpkg.NewUnavailable
	NormalizeContentType = serializerpkg.NormalizeContentType
	ErrEncodingFailed    = serializerpkg.ErrEncodingFailed
	ErrDecodingFailed    = serializerpkg.ErrDecodingFailed

	// Pipeline
	NewPipeline        = pipelinepkg.New
	WithPipelineLogger = pipelinepkg.WithLogger

	// Built-in middlewares
	NewLoggingMiddleware      = middlewarepkg.NewLogging
	WithLoggingName           = middlewarepkg.WithLoggingName
	NewMetricsMiddleware      = middlewarepkg.NewMetrics
	WithMetricsName           = middlewarepkg.WithMetricsName
	NewAuthMiddleware         = middlewarepkg.NewAuth
	WithAuthName              = middlewarepkg.WithAuthName
	NewErrorHandlerMiddleware = middlewarepkg.NewErrorHandler
	WithErrorHandlerName      = middlewarepkg.WithErrorHandlerName
	WithRecovery              = middlewarepkg.WithRecovery
	NewRateLimitMiddleware    = middlewarepkg.NewRateLimit
	WithRateLimitName         = middlewarepkg.WithRateLimitName
	NewCacheMiddleware        = middlewarepkg.NewCache
	WithCacheName             = middlewarepkg.WithCacheName
	WithCacheTTL              = middlewarepkg.WithCacheTTL
	WithCacheCodec            = middlewarepkg.WithCacheCodec
	WithVaryHeaders           = middlewarepkg.WithVaryHeaders
	NewConditionalMiddleware  = middlewarepkg.NewConditional
	WithConditionalName       = middlewarepkg.WithConditionalName

	// Protocol adapters
	NewWebSocketAdapter  = adapterpkg.NewWebSocketAdapter
	WithWebSocketLogger  = adapterpkg.WithWebSocketLogger
	NewWebSocketBridge   = adapterpkg.NewWebSocketBridge
	WithBridgeFormat     = adapterpkg.WithBridgeFormat
	WithBridgeLogger     = adapterpkg.WithBridgeLogger
	NewUpgrader          = adapterpkg.NewUpgrader
	NewGraphQLAdapter    = adapterpkg.NewGraphQLAdapter
	WithGraphQLLogger    = adapterpkg.WithGraphQLLogger
	NewLegacyAdapter     = adapterpkg.NewLegacyAdapter
	WithLegacyLogger     = adapterpkg.WithLegacyLogger
	LegacyStatusCode     = adapterpkg.LegacyStatusCode
	NewRemoteExecutor    = adapterpkg.NewRemoteExecutor
	WithExecutorClient   = adapterpkg.WithExecutorClient
	WithExecutorLogger   = adapterpkg.WithExecutorLogger
	WithExecutorName     = adapterpkg.WithExecutorName
	WithExecutorBreaker  = adapterpkg.WithExecutorBreaker
	ErrRemoteUnavailable = adapterpkg.ErrRemoteUnavailable

	// Schema validation and conversion
	NewValidator             = schemapkg.NewValidator
	LoadSchema               = schemapkg.Load
	LoadSchemaFile           = schemapkg.LoadFile
	LoadSchemaJSON           = schemapkg.LoadJSON
	LoadSchemaYAML           = schemapkg.LoadYAML
	ConvertOpenAPIToAsyncAPI = schemapkg.ConvertOpenAPIToAsyncAPI
	ConvertOpenAPIToGraphQL  = schemapkg.ConvertOpenAPIToGraphQL
	VerifySDL                = schemapkg.VerifySDL
	ChannelKey               = schemapkg.ChannelKey
	ExtractPayloadSchema     = schemapkg.ExtractPayloadSchema
	NewPayloadValidator      = schemapkg.NewPayloadValidator
	NewWatcher               = schemapkg.NewWatcher
	WithWatcherDebounce      = schemapkg.WithWatcherDebounce
	WithWatcherErrorCallback = schemapkg.WithWatcherErrorCallback
	WithWatcherLogger        = schemapkg.WithWatcherLogger

	// Configuration
	NewFileSource          = configpkg.NewFileSource
	NewStructSource        = configpkg.NewStructSource
	DefaultCacheConfig     = configpkg.DefaultCacheConfig
	DefaultGraphQLConfig   = configpkg.DefaultGraphQLConfig
	DefaultRateLimitConfig = configpkg.DefaultRateLimitConfig
	DefaultWatcherConfig   = configpkg.DefaultWatcherConfig
	DefaultWebSocketConfig = configpkg.DefaultWebSocketConfig

	// Cache stores
	NewCache      = cachepkg.New
	KeyForRequest = cachepkg.KeyForRequest
	ErrCacheMiss  = cachepkg.ErrCacheMiss

	// Secrets providers
	NewSecretsProvider = secretspkg.NewProvider
	NewStaticProvider  = secretspkg.NewStaticProvider
	NewEnvProvider     = secretspkg.NewEnvProvider
	NewVaultProvider   = secretspkg.NewVaultProvider
	NewCachingProvider = secretspkg.NewCachingProvider
	ErrSecretNotFound  = secretspkg.ErrSecretNotFound

	// Error taxonomy
	IsValidation        = utilpkg.IsValidation
	IsAdaptation        = utilpkg.IsAdaptation
	IsUnsupportedFormat = utilpkg.IsUnsupportedFormat
	IsShortCircuit      = utilpkg.IsShortCircuit
	IsClientError       = utilpkg.IsClientError
	IsServerError       = utilpkg.IsServerError
	IsErrorStatus       = utilpkg.IsErrorStatus
	ValidStatusCode     = utilpkg.ValidStatusCode

	ErrFormatNotRegistered = utilpkg.ErrFormatNotRegistered
	ErrCodecNotInstalled   = utilpkg.ErrCodecNotInstalled
	ErrShortCircuit        = utilpkg.ErrShortCircuit
	ErrMiddlewareNotFound  = utilpkg.ErrMiddlewareNotFound
	ErrRateLimited         = utilpkg.ErrRateLimited
	ErrInvalidStatusCode   = utilpkg.ErrInvalidStatusCode

	// Observability
	NewLogger        = obspkg.NewLogger
	NopLogger        = obspkg.NopLogger
	DefaultLogConfig = obspkg.DefaultLogConfig
	SetGlobalLogger  = obspkg.SetGlobalLogger
	L                = obspkg.L
	NewTracer        = obspkg.NewTracer
)

// Message envelope type discriminators.
const (
	TypeRequest  = messagepkg.TypeRequest
	TypeResponse = messagepkg.TypeResponse
	TypeError    = messagepkg.TypeError
)

// Serialization format identifiers and their content types.
const (
	FormatJSON        = serializerpkg.FormatJSON
	FormatMessagePack = serializerpkg.FormatMessagePack
	FormatCBOR        = serializerpkg.FormatCBOR
	FormatYAML        = serializerpkg.FormatYAML
	FormatProtobuf    = serializerpkg.FormatProtobuf
	DefaultFormat     = serializerpkg.DefaultFormat

	ContentTypeJSON        = serializerpkg.ContentTypeJSON
	ContentTypeMessagePack = serializerpkg.ContentTypeMessagePack
	ContentTypeCBOR        = serializerpkg.ContentTypeCBOR
	ContentTypeYAML        = serializerpkg.ContentTypeYAML
	ContentTypeProtobuf    = serializerpkg.ContentTypeProtobuf
)

// Header names used across adapters and middlewares.
const (
	HeaderContentType   = adapterpkg.HeaderContentType
	HeaderAccept        = adapterpkg.HeaderAccept
	HeaderAuthorization = middlewarepkg.HeaderAuthorization
	HeaderAPIKey        = middlewarepkg.HeaderAPIKey
	HeaderRequestID     = middlewarepkg.HeaderRequestID
)

// Authentication schemes accepted by AuthConfig.
const (
	AuthSchemeBearer = configpkg.AuthSchemeBearer
	AuthSchemeAPIKey = configpkg.AuthSchemeAPIKey
	AuthSchemeCustom = configpkg.AuthSchemeCustom
)

// Secrets provider types accepted by ProviderConfig.
const (
	ProviderTypeStatic = secretspkg.ProviderTypeStatic
	ProviderTypeEnv    = secretspkg.ProviderTypeEnv
	ProviderTypeVault  = secretspkg.ProviderTypeVault
)

// Defaults.
const (
	DefaultGraphQLEndpoint     = configpkg.DefaultGraphQLEndpoint
	DefaultWebSocketBufferSize = configpkg.DefaultWebSocketBufferSize
	DefaultWatcherDebounce     = configpkg.DefaultWatcherDebounce
	DefaultCacheTTL            = configpkg.DefaultCacheTTL
	DefaultExecutorTimeout     = adapterpkg.DefaultExecutorTimeout
	DefaultSecretKey           = middlewarepkg.DefaultSecretKey
)
