package criteria

import "encoding/json"

// Criteria serialize one-way: each node becomes an object keyed by its name
// with the node-specific payload inside. The envelopes follow the filter DSL
// of the target search engine.

func (c *TermCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]interface{}{c.Field: c.Value},
	})
}

func (c *TermsCriteria) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{c.Field: c.Values}
	if c.Execution != "" && c.Execution != ExecutionPlain {
		payload["execution"] = string(c.Execution)
	}
	return json.Marshal(map[string]interface{}{c.Name(): payload})
}

func (c *RangeCriteria) MarshalJSON() ([]byte, error) {
	bounds := make(map[string]interface{}, len(c.Specs))
	for _, spec := range c.Specs {
		bounds[string(spec.Comparison)] = spec.Value
	}
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]interface{}{c.Field: bounds},
	})
}

func (c *MissingCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]string{"field": c.Field},
	})
}

func (c *ExistsCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]string{"field": c.Field},
	})
}

func (c *PrefixCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]string{c.Field: c.Prefix},
	})
}

func (c *RegexpCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]string{c.Field: c.Pattern},
	})
}

func (c *NotCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]interface{}{"filter": c.Inner},
	})
}

func (c *AndCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]interface{}{"filters": c.Children},
	})
}

func (c *OrCriteria) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		c.Name(): map[string]interface{}{"filters": c.Children},
	})
}

// The request assembler replaces a True predicate with the type selection (or
// no filter), so True normally never reaches serialization; a False predicate
// stays in the filter slot and serializes as the match-none envelope. The
// match-all envelope keeps the output well-formed if a True slips through.
func (c *ConstantCriteria) MarshalJSON() ([]byte, error) {
	if c.value {
		return json.Marshal(map[string]interface{}{"match_all": struct{}{}})
	}
	return json.Marshal(map[string]interface{}{"match_none": struct{}{}})
}
