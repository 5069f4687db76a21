package stack

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// validFieldTypes contains every field type an object field may declare
var validFieldTypes = []string{
	"text", "textarea", "email", "url", "phone", "password",
	"markdown", "html", "richtext", "code", "json",
	"number", "currency", "percent", "rating", "autonumber",
	"boolean", "toggle",
	"date", "datetime", "time",
	"select", "multiselect", "radio", "checkboxes",
	"lookup", "master_detail",
	"formula", "summary",
	"file", "image", "avatar",
	"location", "address", "color", "signature",
}

var validTriggerTypes = []string{
	"on_create", "on_update", "on_create_or_update", "on_delete", "schedule",
}

var validHookEvents = []string{
	"beforeInsert", "afterInsert",
	"beforeUpdate", "afterUpdate",
	"beforeDelete", "afterDelete",
	"beforeFind", "afterFind",
}

// IsValidFieldType checks if a type string is a known object field type
func IsValidFieldType(t string) bool {
	return slices.Contains(validFieldTypes, t)
}

type objectSchema struct {
	Name   string                 `mapstructure:"name"`
	Label  string                 `mapstructure:"label"`
	Fields map[string]fieldSchema `mapstructure:"fields"`
}

type fieldSchema struct {
	Type      string `mapstructure:"type"`
	Label     string `mapstructure:"label"`
	Required  bool   `mapstructure:"required"`
	Reference string `mapstructure:"reference"`
}

type workflowSchema struct {
	Name        string `mapstructure:"name"`
	ObjectName  string `mapstructure:"objectName"`
	TriggerType string `mapstructure:"triggerType"`
	Active      *bool  `mapstructure:"active"`
}

type hookSchema struct {
	Name     string   `mapstructure:"name"`
	Object   string   `mapstructure:"object"`
	Events   []string `mapstructure:"events"`
	Priority int      `mapstructure:"priority"`
	Async    bool     `mapstructure:"async"`
}

type approvalSchema struct {
	Name   string         `mapstructure:"name"`
	Object string         `mapstructure:"object"`
	Steps  []approvalStep `mapstructure:"steps"`
}

type approvalStep struct {
	Name      string   `mapstructure:"name"`
	Approvers []string `mapstructure:"approvers"`
}

type identitySchema struct {
	Name string `mapstructure:"name"`
}

// DefaultValidators returns the built-in validator table. Each call returns a
// fresh table that callers may modify.
func DefaultValidators() Validators {
	return Validators{
		"objects":     ValidateObject,
		"workflows":   ValidateWorkflow,
		"hooks":       ValidateHook,
		"approvals":   ValidateApproval,
		"apps":        ValidateIdentity,
		"pages":       ValidateIdentity,
		"dashboards":  ValidateIdentity,
		"reports":     ValidateIdentity,
		"actions":     ValidateIdentity,
		"roles":       ValidateIdentity,
		"permissions": ValidateIdentity,
		"datasources": ValidateIdentity,
	}
}

// ValidateObject checks an object body: every field needs a known type.
func ValidateObject(e Entity) (Entity, error) {
	var obj objectSchema
	if err := decode(e, &obj); err != nil {
		return nil, err
	}

	var errs []error
	for _, key := range sortedKeys(asAnyMap(e["fields"])) {
		field := obj.Fields[key]
		switch {
		case field.Type == "":
			errs = append(errs, fmt.Errorf("fields.%s.type is required", key))
		case !IsValidFieldType(field.Type):
			errs = append(errs, fmt.Errorf("fields.%s.type '%s' is not a known field type", key, field.Type))
		case (field.Type == "lookup" || field.Type == "master_detail") && field.Reference == "":
			errs = append(errs, fmt.Errorf("fields.%s: %s fields require 'reference'", key, field.Type))
		}
	}
	return e, errors.Join(errs...)
}

// ValidateWorkflow checks a workflow body: objectName is required and
// triggerType, when set, must be a known trigger.
func ValidateWorkflow(e Entity) (Entity, error) {
	var wf workflowSchema
	if err := decode(e, &wf); err != nil {
		return nil, err
	}

	var errs []error
	if wf.ObjectName == "" {
		errs = append(errs, errors.New("objectName is required"))
	}
	if wf.TriggerType != "" && !slices.Contains(validTriggerTypes, wf.TriggerType) {
		errs = append(errs, fmt.Errorf("triggerType '%s' must be one of: %s",
			wf.TriggerType, strings.Join(validTriggerTypes, ", ")))
	}
	return e, errors.Join(errs...)
}

// ValidateHook checks a hook body: object is required and events, when set,
// must be a non-empty list of known lifecycle events.
func ValidateHook(e Entity) (Entity, error) {
	var hook hookSchema
	if err := decode(e, &hook); err != nil {
		return nil, err
	}

	var errs []error
	if hook.Object == "" {
		errs = append(errs, errors.New("object is required"))
	}
	if _, set := e["events"]; set && len(hook.Events) == 0 {
		errs = append(errs, errors.New("events must not be empty"))
	}
	for _, event := range hook.Events {
		if !slices.Contains(validHookEvents, event) {
			errs = append(errs, fmt.Errorf("unknown event '%s'", event))
		}
	}
	return e, errors.Join(errs...)
}

// ValidateApproval checks an approval body: object is required and every
// step needs a name.
func ValidateApproval(e Entity) (Entity, error) {
	var approval approvalSchema
	if err := decode(e, &approval); err != nil {
		return nil, err
	}

	var errs []error
	if approval.Object == "" {
		errs = append(errs, errors.New("object is required"))
	}
	for i, step := range approval.Steps {
		if step.Name == "" {
			errs = append(errs, fmt.Errorf("steps[%d].name is required", i))
		}
	}
	return e, errors.Join(errs...)
}

// ValidateIdentity only requires a non-empty string name.
func ValidateIdentity(e Entity) (Entity, error) {
	var id identitySchema
	if err := decode(e, &id); err != nil {
		return nil, err
	}
	if id.Name == "" {
		return nil, errors.New("name is required")
	}
	return e, nil
}

// decode maps an entity body onto a typed schema. Unknown keys are allowed
// so that entities may carry attributes this package does not model.
func decode(e Entity, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(e)); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

func asAnyMap(v any) map[string]any {
	m, _ := asMap(v)
	return m
}
