// Package subscription implements the tag-keyed subscription registry that sits between the
// executor's subscribe operation and whatever transport (WebSocket, in-process channel, message
// bus) ultimately delivers events. It generalizes the teacher's single-connection
// SubscriptionSourceStream into a process-wide registry so that a single event can fan out to
// many independently-filtered subscribers, following the reader-writer-lock delivery pattern
// described for the resolver engine: readers (deliveries) never block each other, and a writer
// (subscribe/unsubscribe) never blocks a delivery that's already in flight.
package subscription

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/ccbrown/graphqlservice/graphql/ast"
	"github.com/ccbrown/graphqlservice/graphql/executor"
	"github.com/ccbrown/graphqlservice/graphql/schema"
	"github.com/ccbrown/graphqlservice/graphql/validator"
)

// Key uniquely identifies a single subscription.
type Key uuid.UUID

func (k Key) String() string {
	return uuid.UUID(k).String()
}

// DeliveryResult is the {data}/{errors} payload produced for one subscriber by executing its
// subscription's top-level field resolver against a delivered event root.
type DeliveryResult struct {
	Data   *executor.OrderedMap
	Errors []*executor.Error
}

// Callback is invoked with the subscriber's resolved result whenever a matching event is
// delivered, or with nil when the registry is closing. It should not block for long; under
// DeliveryModeAsync it runs on its own goroutine, but under DeliveryModeDeferred it runs inline
// on the delivering goroutine, blocking subsequent subscribers in the same Deliver call.
type Callback func(result *DeliveryResult)

// FuzzyFilterFunc is evaluated once per recorded subscription argument (by name) to decide
// whether a subscriber should receive an event. A subscriber matches only if fn returns true for
// every one of its own arguments.
type FuzzyFilterFunc func(name string, value interface{}) bool

// DeliveryMode controls how Deliver invokes matching subscribers.
type DeliveryMode int

const (
	// DeliveryModeDeferred invokes each matching callback synchronously, one after another, on
	// the goroutine that called Deliver.
	DeliveryModeDeferred DeliveryMode = iota
	// DeliveryModeAsync invokes each matching callback on its own goroutine and returns once all
	// of them have finished.
	DeliveryModeAsync
)

// SubscribeParams describes the subscription operation a call to Subscribe registers. Document,
// OperationName, and Variables mirror the fields of a normal GraphQL request; the registry
// derives the subscription's tag and argument signature from the operation's single root field
// itself, rather than requiring the caller to supply them.
type SubscribeParams struct {
	Context context.Context

	Schema        *schema.Schema
	Document      *ast.Document
	OperationName string
	Variables     map[string]interface{}

	// InitialValue, if given, is used as the event root for deliveries that don't supply one of
	// their own.
	InitialValue interface{}
}

type entry struct {
	key  Key
	tag  string
	ctx  context.Context
	sch  *schema.Schema
	doc  *ast.Document
	op   string
	vars map[string]interface{}

	// arguments holds the coerced values of the subscription root field's arguments, used to
	// match against Deliver/DeliverFiltered/DeliverFuzzy.
	arguments map[string]interface{}

	initialValue interface{}
	callback     Callback
}

// Registry fans events out to subscriptions by tag, optionally filtering by the arguments the
// subscription was opened with.
type Registry struct {
	mode   DeliveryMode
	logger logrus.FieldLogger

	mu      sync.RWMutex
	byTag   map[string]map[Key]*entry
	byKey   map[Key]*entry
	closing bool
}

// NewRegistry constructs an empty registry. If logger is nil, logrus.StandardLogger() is used.
func NewRegistry(mode DeliveryMode, logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		mode:   mode,
		logger: logger,
		byTag:  map[string]map[Key]*entry{},
		byKey:  map[Key]*entry{},
	}
}

// Subscribe validates that params describes a subscription operation with exactly one root
// field, derives the subscription's tag and argument signature from that field, and registers
// callback to be invoked (with the field's resolver re-run against the delivered event root)
// whenever a matching event is delivered.
func (r *Registry) Subscribe(params SubscribeParams, callback Callback) (Key, error) {
	operation, err := executor.GetOperation(params.Document, params.OperationName)
	if err != nil {
		return Key{}, &Error{Message: err.Error()}
	}
	if operation.OperationType == nil || operation.OperationType.Value != "subscription" {
		return Key{}, &Error{Message: "the operation is not a subscription"}
	}

	subscriptionType := params.Schema.SubscriptionType()
	if !schema.IsObjectType(subscriptionType) {
		return Key{}, &Error{Message: "this schema cannot perform subscriptions"}
	}

	var rootField *ast.Field
	for _, selection := range operation.SelectionSet.Selections {
		field, ok := selection.(*ast.Field)
		if !ok {
			return Key{}, &Error{Message: "the registry requires the subscription's root field to be selected directly, not through a fragment"}
		}
		if rootField != nil {
			return Key{}, &Error{Message: "subscriptions must contain exactly one root field selection"}
		}
		rootField = field
	}
	if rootField == nil {
		return Key{}, &Error{Message: "subscriptions must contain exactly one root field selection"}
	}

	fieldDef := subscriptionType.Fields[rootField.Name.Name]
	if fieldDef == nil {
		return Key{}, &Error{Message: fmt.Sprintf("undefined root subscription field: %v", rootField.Name.Name)}
	}

	coercedVariables, verr := validator.CoerceVariableValues(params.Schema, operation, params.Variables)
	if verr != nil {
		return Key{}, &Error{Message: verr.Error()}
	}

	arguments, aerr := validator.CoerceArgumentValues(rootField, fieldDef.Arguments, rootField.Arguments, coercedVariables)
	if aerr != nil {
		return Key{}, &Error{Message: aerr.Error()}
	}

	tag := rootField.Name.Name
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	e := &entry{
		key:          Key(uuid.New()),
		tag:          tag,
		ctx:          ctx,
		sch:          params.Schema,
		doc:          params.Document,
		op:           params.OperationName,
		vars:         params.Variables,
		arguments:    arguments,
		initialValue: params.InitialValue,
		callback:     callback,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byTag[tag] == nil {
		r.byTag[tag] = map[Key]*entry{}
	}
	r.byTag[tag][e.key] = e
	r.byKey[e.key] = e
	return e.key, nil
}

// Unsubscribe removes a previously registered subscription. It's a no-op if the key is unknown,
// e.g. because it was already unsubscribed.
func (r *Registry) Unsubscribe(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byKey[key]
	if !ok {
		return
	}
	delete(r.byKey, key)
	if m := r.byTag[e.tag]; m != nil {
		delete(m, key)
		if len(m) == 0 {
			delete(r.byTag, e.tag)
		}
	}
}

// Len returns the number of active subscriptions for tag.
func (r *Registry) Len(tag string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTag[tag])
}

// Deliver fans eventRoot out to every subscription registered for tag, regardless of arguments.
func (r *Registry) Deliver(tag string, eventRoot interface{}) {
	r.dispatch(r.subscribers(tag, func(*entry) bool { return true }), eventRoot)
}

// DeliverFiltered fans eventRoot out only to subscriptions whose argument signature is exactly
// equal to arguments (by ==-comparable value equality of each entry).
func (r *Registry) DeliverFiltered(tag string, arguments map[string]interface{}, eventRoot interface{}) {
	r.dispatch(r.subscribers(tag, func(e *entry) bool {
		return exactMatch(e.arguments, arguments)
	}), eventRoot)
}

// DeliverFuzzy fans eventRoot out only to subscriptions for which fn returns true for every one
// of the subscriber's own recorded arguments. Unlike DeliverFiltered, fn is evaluated against
// each subscriber's own arguments individually, not against a single delivery-supplied map, so
// different subscribers for the same tag can be matched by different predicates over their own
// arguments (e.g. "deliver to anyone whose minScore argument is <= this event's score").
func (r *Registry) DeliverFuzzy(tag string, fn FuzzyFilterFunc, eventRoot interface{}) {
	r.dispatch(r.subscribers(tag, func(e *entry) bool {
		for name, value := range e.arguments {
			if !fn(name, value) {
				return false
			}
		}
		return true
	}), eventRoot)
}

func (r *Registry) subscribers(tag string, matches func(*entry) bool) []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subscribers := make([]*entry, 0, len(r.byTag[tag]))
	for _, e := range r.byTag[tag] {
		if matches(e) {
			subscribers = append(subscribers, e)
		}
	}
	return subscribers
}

func exactMatch(have, want map[string]interface{}) bool {
	if len(have) != len(want) {
		return false
	}
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}

func (r *Registry) dispatch(subscribers []*entry, eventRoot interface{}) {
	switch r.mode {
	case DeliveryModeAsync:
		var wg sync.WaitGroup
		wg.Add(len(subscribers))
		for _, e := range subscribers {
			e := e
			go func() {
				defer wg.Done()
				r.invoke(e, eventRoot)
			}()
		}
		wg.Wait()
	default:
		for _, e := range subscribers {
			r.invoke(e, eventRoot)
		}
	}
}

// invoke re-executes the subscription's top-level field resolver against the event root,
// assembling a {data}/{errors} payload before handing it to the subscriber's callback.
func (r *Registry) invoke(e *entry, eventRoot interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(logrus.Fields{
				"tag": e.tag,
				"key": e.key.String(),
			}).Errorf("subscription callback panicked: %v", rec)
		}
	}()

	root := eventRoot
	if root == nil {
		root = e.initialValue
	}

	data, errs := executor.ExecuteRequest(e.ctx, &executor.Request{
		Document:       e.doc,
		Schema:         e.sch,
		OperationName:  e.op,
		VariableValues: e.vars,
		InitialValue:   root,
	})

	e.callback(&DeliveryResult{Data: data, Errors: errs})
}

// Close unsubscribes everything, returning an aggregated error if any per-subscription cleanup
// panics while being torn down (callbacks are given a final nil result so they can release
// resources; a panic there is recorded but doesn't stop the rest of the teardown).
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closing = true
	entries := make([]*entry, 0, len(r.byKey))
	for _, e := range r.byKey {
		entries = append(entries, e)
	}
	r.byTag = map[string]map[Key]*entry{}
	r.byKey = map[Key]*entry{}
	r.mu.Unlock()

	var result error
	for _, e := range entries {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					result = multierror.Append(result, &Error{Message: fmt.Sprintf("close: subscription %s panicked: %v", e.key, rec)})
				}
			}()
			e.callback(nil)
		}()
	}
	return result
}

// Error is returned for subscription-registry failures that need to be aggregated.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
