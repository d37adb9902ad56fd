package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// asyncAPIProtocols is the strict-mode server protocol allow-list.
var asyncAPIProtocols = map[string]bool{
	"ws":           true,
	"wss":          true,
	"http":         true,
	"https":        true,
	"mqtt":         true,
	"mqtts":        true,
	"kafka":        true,
	"kafka-secure": true,
	"amqp":         true,
	"amqps":        true,
}

// componentSections is the strict-mode components allow-list.
var componentSections = map[string]bool{
	"schemas":           true,
	"messages":          true,
	"securitySchemes":   true,
	"parameters":        true,
	"correlationIds":    true,
	"operationTraits":   true,
	"messageTraits":     true,
	"serverBindings":    true,
	"channelBindings":   true,
	"operationBindings": true,
	"messageBindings":   true,
}

// Result is a successful validation outcome.
type Result struct {
	// Valid is always true on a returned result; failures surface as
	// errors instead.
	Valid bool `json:"valid"`

	// Version is the declared asyncapi version.
	Version string `json:"version"`

	// Title is the document title.
	Title string `json:"title"`

	// Channels lists the channel names in sorted order.
	Channels []string `json:"channels"`
}

// Validator checks AsyncAPI documents. A validation pass holds no
// state, so one Validator serves concurrent callers.
type Validator struct {
	strict bool
	logger observability.Logger
}

// NewValidator creates a validator. A nil config means lax mode.
func NewValidator(cfg *config.ValidatorConfig, logger observability.Logger) *Validator {
	if logger == nil {
		logger = observability.NopLogger()
	}

	v := &Validator{logger: logger}
	if cfg != nil {
		v.strict = cfg.Strict
	}

	return v
}

// Strict reports whether strict mode is enabled.
func (v *Validator) Strict() bool {
	return v.strict
}

// ValidateAsyncAPI runs a single validation pass over the document and
// returns the first rule violation. Rules run in a fixed order:
// version, required fields, info, channels, servers, components.
func (v *Validator) ValidateAsyncAPI(doc Document) (*Result, error) {
	version, err := v.checkVersion(doc)
	if err != nil {
		return nil, err
	}

	if err := v.checkRequiredFields(doc); err != nil {
		return nil, err
	}

	title, err := v.checkInfo(doc)
	if err != nil {
		return nil, err
	}

	channels, err := v.checkChannels(doc, version)
	if err != nil {
		return nil, err
	}

	if err := v.checkServers(doc); err != nil {
		return nil, err
	}

	if err := v.checkComponents(doc); err != nil {
		return nil, err
	}

	v.logger.Debug("document validated",
		observability.String("version", version),
		observability.String("title", title),
		observability.Int("channels", len(channels)),
	)

	return &Result{
		Valid:    true,
		Version:  version,
		Title:    title,
		Channels: channels,
	}, nil
}

func (v *Validator) checkVersion(doc Document) (string, error) {
	raw, ok := doc["asyncapi"]
	if !ok {
		return "", util.NewValidationError("asyncapi", "Missing 'asyncapi' version field")
	}

	version, ok := raw.(string)
	if !ok {
		return "", util.NewValidationError("asyncapi",
			fmt.Sprintf("Unsupported AsyncAPI version: %v", raw))
	}

	if !strings.HasPrefix(version, "2.") && !strings.HasPrefix(version, "3.") {
		return "", util.NewValidationError("asyncapi",
			fmt.Sprintf("Unsupported AsyncAPI version %q", version))
	}

	return version, nil
}

func (v *Validator) checkRequiredFields(doc Document) error {
	if _, ok := doc["info"]; !ok {
		return util.NewValidationError("document", "missing required field 'info'")
	}
	if _, ok := doc["channels"]; !ok {
		return util.NewValidationError("document", "missing required field 'channels'")
	}
	return nil
}

func (v *Validator) checkInfo(doc Document) (string, error) {
	info, ok := getMap(doc, "info")
	if !ok {
		return "", util.NewValidationError("info", "must be an object")
	}

	title, ok := getString(info, "title")
	if !ok || title == "" {
		return "", util.NewFieldValidationError("info", "title", "required")
	}

	version, ok := getString(info, "version")
	if !ok || version == "" {
		return "", util.NewFieldValidationError("info", "version", "required")
	}

	return title, nil
}

func (v *Validator) checkChannels(doc Document, version string) ([]string, error) {
	channels, ok := getMap(doc, "channels")
	if !ok {
		return nil, util.NewValidationError("channels", "must be an object")
	}

	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := v.checkChannel(name, channels[name], version); err != nil {
			return nil, err
		}
	}

	return names, nil
}

// checkChannel validates one channel entry. A nil entry is an empty
// channel and passes.
func (v *Validator) checkChannel(name string, raw interface{}, version string) error {
	if raw == nil {
		return nil
	}

	channel, ok := raw.(map[string]interface{})
	if !ok {
		return util.NewFieldValidationError("channels", name, "must be an object")
	}

	if strings.HasPrefix(version, "2.") {
		for _, op := range []string{"publish", "subscribe"} {
			if err := v.checkOperation(name, op, channel); err != nil {
				return err
			}
		}
		return nil
	}

	if v.strict {
		if addr, ok := channel["address"]; !ok || addr == nil {
			return util.NewFieldValidationError("channels", name, "must declare an address")
		}
	}

	return nil
}

// checkOperation validates a 2.x publish or subscribe block: when it
// carries a message, the message payload must be object-shaped.
func (v *Validator) checkOperation(channel, op string, ch map[string]interface{}) error {
	raw, ok := ch[op]
	if !ok {
		return nil
	}

	block, ok := raw.(map[string]interface{})
	if !ok {
		return util.NewFieldValidationError("channels", channel+"."+op, "must be an object")
	}

	rawMsg, ok := block["message"]
	if !ok {
		return nil
	}

	msg, ok := rawMsg.(map[string]interface{})
	if !ok {
		return util.NewFieldValidationError("channels", channel+"."+op+".message", "must be an object")
	}

	if _, ok := getMap(msg, "payload"); !ok {
		return util.NewFieldValidationError("channels",
			channel+"."+op+".message.payload", "must be an object")
	}

	return nil
}

func (v *Validator) checkServers(doc Document) error {
	raw, ok := doc["servers"]
	if !ok {
		return nil
	}

	servers, ok := raw.(map[string]interface{})
	if !ok {
		return util.NewValidationError("servers", "must be an object")
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		server, ok := servers[name].(map[string]interface{})
		if !ok {
			return util.NewFieldValidationError("servers", name, "must be an object")
		}

		url, _ := getString(server, "url")
		host, _ := getString(server, "host")
		if url == "" && host == "" {
			return util.NewFieldValidationError("servers", name, "requires 'url' or 'host'")
		}

		protocol, _ := getString(server, "protocol")
		if protocol == "" {
			return util.NewFieldValidationError("servers", name, "requires 'protocol'")
		}

		if v.strict && !asyncAPIProtocols[protocol] {
			return util.NewFieldValidationError("servers", name,
				fmt.Sprintf("unsupported protocol %q", protocol))
		}
	}

	return nil
}

func (v *Validator) checkComponents(doc Document) error {
	raw, ok := doc["components"]
	if !ok {
		return nil
	}

	components, ok := raw.(map[string]interface{})
	if !ok {
		return util.NewValidationError("components", "must be an object")
	}

	sections := make([]string, 0, len(components))
	for section := range components {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		if v.strict && !componentSections[section] {
			return util.NewValidationError("components",
				fmt.Sprintf("unknown section %q", section))
		}
		if _, ok := components[section].(map[string]interface{}); !ok {
			return util.NewFieldValidationError("components", section, "must be an object")
		}
	}

	return nil
}
