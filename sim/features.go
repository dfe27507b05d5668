package sim

import (
	"github.com/vmbx/vmbx/vmb"
)

// query runs fn on a feature of the given type with the owning camera
// locked. It checks existence and type only.
func (s *System) query(h vmb.Handle, name string, dt vmb.FeatureDataType, fn func(c *camera, f *feature) vmb.Error) vmb.Error {
	c, tree, err := s.resolve(h)
	if err != vmb.ErrorSuccess {
		return err
	}
	if c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	f, err := tree.get(name)
	if err != vmb.ErrorSuccess {
		return err
	}
	if dt != vmb.FeatureDataUnknown && f.info.DataType != dt {
		return vmb.ErrorWrongType
	}
	return fn(c, f)
}

// read is query plus the readability check.
func (s *System) read(h vmb.Handle, name string, dt vmb.FeatureDataType, fn func(c *camera, f *feature) vmb.Error) vmb.Error {
	return s.query(h, name, dt, func(c *camera, f *feature) vmb.Error {
		if !f.readable() {
			return vmb.ErrorInvalidAccess
		}
		return fn(c, f)
	})
}

// writeAllowed reports whether f may currently be written through c.
// Callers hold c.mu.
func writeAllowed(c *camera, f *feature) bool {
	if c == nil || !f.writable() || c.access == vmb.AccessModeRead {
		return false
	}
	return !(f.lockWhileAcq && c.acquiring)
}

// write validates and applies a new value, then fires the invalidation
// callbacks of the feature and its dependents with the camera unlocked.
func (s *System) write(h vmb.Handle, name string, dt vmb.FeatureDataType, apply func(c *camera, f *feature) vmb.Error) vmb.Error {
	c, tree, err := s.resolve(h)
	if err != vmb.ErrorSuccess {
		return err
	}
	if c != nil {
		c.mu.Lock()
	}
	unlock := func() {
		if c != nil {
			c.mu.Unlock()
		}
	}
	f, err := tree.get(name)
	if err != vmb.ErrorSuccess {
		unlock()
		return err
	}
	if f.info.DataType != dt {
		unlock()
		return vmb.ErrorWrongType
	}
	if !writeAllowed(c, f) {
		unlock()
		return vmb.ErrorInvalidAccess
	}
	if err := apply(c, f); err != vmb.ErrorSuccess {
		unlock()
		return err
	}
	if f.onSet != nil {
		f.onSet(c)
	}
	invs := c.collectInvalidations(append([]string{name}, f.dependents...)...)
	handle := c.handle
	unlock()

	c.fire(handle, invs)
	return vmb.ErrorSuccess
}

func (s *System) FeaturesList(handle vmb.Handle, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	c, tree, err := s.resolve(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	if c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	return fillList(tree.infos(), featureInfoList, numFound)
}

func (s *System) FeatureInfoQuery(handle vmb.Handle, name string, featureInfo *vmb.FeatureInfo) vmb.Error {
	if featureInfo == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataUnknown, func(_ *camera, f *feature) vmb.Error {
		*featureInfo = f.info
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureListSelected(handle vmb.Handle, name string, featureInfoList []vmb.FeatureInfo, numFound *uint32) vmb.Error {
	c, tree, err := s.resolve(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	if c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	f, err := tree.get(name)
	if err != vmb.ErrorSuccess {
		return err
	}
	infos := make([]vmb.FeatureInfo, 0, len(f.selected))
	for _, sel := range f.selected {
		infos = append(infos, tree.byName[sel].info)
	}
	return fillList(infos, featureInfoList, numFound)
}

func (s *System) FeatureAccessQuery(handle vmb.Handle, name string, isReadable, isWriteable *bool) vmb.Error {
	if isReadable == nil && isWriteable == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataUnknown, func(c *camera, f *feature) vmb.Error {
		if isReadable != nil {
			*isReadable = f.readable()
		}
		if isWriteable != nil {
			*isWriteable = writeAllowed(c, f)
		}
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureIntGet(handle vmb.Handle, name string, value *int64) vmb.Error {
	if value == nil {
		return vmb.ErrorBadParameter
	}
	return s.read(handle, name, vmb.FeatureDataInt, func(c *camera, f *feature) vmb.Error {
		*value = f.intValue(c)
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureIntSet(handle vmb.Handle, name string, value int64) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataInt, func(c *camera, f *feature) vmb.Error {
		if err := f.checkInt(c, value); err != vmb.ErrorSuccess {
			return err
		}
		f.intVal = value
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureIntRangeQuery(handle vmb.Handle, name string, min, max *int64) vmb.Error {
	if min == nil && max == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataInt, func(c *camera, f *feature) vmb.Error {
		lo, hi := f.intBounds(c)
		if f.intGet != nil {
			lo, hi = f.intGet(c), f.intGet(c)
		}
		if min != nil {
			*min = lo
		}
		if max != nil {
			*max = hi
		}
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureIntIncrementQuery(handle vmb.Handle, name string, value *int64) vmb.Error {
	if value == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataInt, func(_ *camera, f *feature) vmb.Error {
		*value = max(f.intInc, 1)
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureIntValidValueSetQuery(handle vmb.Handle, name string, buffer []int64, setSize *uint32) vmb.Error {
	return s.query(handle, name, vmb.FeatureDataInt, func(_ *camera, f *feature) vmb.Error {
		if len(f.intValidValues) == 0 {
			return vmb.ErrorValidValueSetNotPresent
		}
		return fillList(f.intValidValues, buffer, setSize)
	})
}

func (s *System) FeatureFloatGet(handle vmb.Handle, name string, value *float64) vmb.Error {
	if value == nil {
		return vmb.ErrorBadParameter
	}
	return s.read(handle, name, vmb.FeatureDataFloat, func(_ *camera, f *feature) vmb.Error {
		*value = f.floatVal
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureFloatSet(handle vmb.Handle, name string, value float64) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataFloat, func(_ *camera, f *feature) vmb.Error {
		if err := f.checkFloat(value); err != vmb.ErrorSuccess {
			return err
		}
		f.floatVal = value
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureFloatRangeQuery(handle vmb.Handle, name string, min, max *float64) vmb.Error {
	if min == nil && max == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataFloat, func(_ *camera, f *feature) vmb.Error {
		if min != nil {
			*min = f.floatMin
		}
		if max != nil {
			*max = f.floatMax
		}
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureFloatIncrementQuery(handle vmb.Handle, name string, hasIncrement *bool, value *float64) vmb.Error {
	if hasIncrement == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataFloat, func(_ *camera, f *feature) vmb.Error {
		*hasIncrement = f.hasFloatInc
		if value != nil && f.hasFloatInc {
			*value = f.floatInc
		}
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumGet(handle vmb.Handle, name string, value *string) vmb.Error {
	if value == nil {
		return vmb.ErrorBadParameter
	}
	return s.read(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		*value = f.enumVal
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumSet(handle vmb.Handle, name string, value string) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		if _, ok := f.entry(value); !ok || f.unavailable[value] {
			return vmb.ErrorInvalidValue
		}
		f.enumVal = value
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumRangeQuery(handle vmb.Handle, name string, nameArray []string, numFound *uint32) vmb.Error {
	return s.query(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		names := make([]string, 0, len(f.entries))
		for _, e := range f.entries {
			if !f.unavailable[e.Name] {
				names = append(names, e.Name)
			}
		}
		return fillList(names, nameArray, numFound)
	})
}

func (s *System) FeatureEnumIsAvailable(handle vmb.Handle, name string, value string, isAvailable *bool) vmb.Error {
	if isAvailable == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		if _, ok := f.entry(value); !ok {
			return vmb.ErrorInvalidValue
		}
		*isAvailable = !f.unavailable[value]
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumAsInt(handle vmb.Handle, name string, value string, intVal *int64) vmb.Error {
	if intVal == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		e, ok := f.entry(value)
		if !ok {
			return vmb.ErrorInvalidValue
		}
		*intVal = e.IntValue
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumAsString(handle vmb.Handle, name string, intValue int64, stringValue *string) vmb.Error {
	if stringValue == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		e, ok := f.entryByValue(intValue)
		if !ok {
			return vmb.ErrorInvalidValue
		}
		*stringValue = e.Name
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureEnumEntryGet(handle vmb.Handle, featureName string, entryName string, featureEnumEntry *vmb.FeatureEnumEntry) vmb.Error {
	if featureEnumEntry == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, featureName, vmb.FeatureDataEnum, func(_ *camera, f *feature) vmb.Error {
		e, ok := f.entry(entryName)
		if !ok {
			return vmb.ErrorInvalidValue
		}
		*featureEnumEntry = e
		return vmb.ErrorSuccess
	})
}

// FeatureStringGet copies the value and its terminating NUL into buffer.
// sizeFilled receives the length including the terminator.
func (s *System) FeatureStringGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return s.read(handle, name, vmb.FeatureDataString, func(_ *camera, f *feature) vmb.Error {
		return fillBytes(append([]byte(f.strVal), 0), buffer, sizeFilled)
	})
}

func (s *System) FeatureStringSet(handle vmb.Handle, name string, value string) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataString, func(_ *camera, f *feature) vmb.Error {
		if f.strMax > 0 && uint32(len(value)) > f.strMax {
			return vmb.ErrorInvalidValue
		}
		f.strVal = value
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureStringMaxlengthQuery(handle vmb.Handle, name string, maxLength *uint32) vmb.Error {
	if maxLength == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataString, func(_ *camera, f *feature) vmb.Error {
		*maxLength = f.strMax
		if f.strMax == 0 {
			*maxLength = uint32(len(f.strVal))
		}
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureBoolGet(handle vmb.Handle, name string, value *bool) vmb.Error {
	if value == nil {
		return vmb.ErrorBadParameter
	}
	return s.read(handle, name, vmb.FeatureDataBool, func(_ *camera, f *feature) vmb.Error {
		*value = f.boolVal
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureBoolSet(handle vmb.Handle, name string, value bool) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataBool, func(_ *camera, f *feature) vmb.Error {
		f.boolVal = value
		return vmb.ErrorSuccess
	})
}

// FeatureCommandRun executes the command synchronously with the camera
// unlocked, so TriggerSoftware callbacks run on the calling goroutine.
func (s *System) FeatureCommandRun(handle vmb.Handle, name string) vmb.Error {
	c, tree, err := s.resolve(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	if c == nil {
		if _, err := tree.get(name); err != vmb.ErrorSuccess {
			return err
		}
		return vmb.ErrorInvalidAccess
	}
	c.mu.Lock()
	f, err := c.tree.get(name)
	if err != vmb.ErrorSuccess {
		c.mu.Unlock()
		return err
	}
	if f.info.DataType != vmb.FeatureDataCommand {
		c.mu.Unlock()
		return vmb.ErrorWrongType
	}
	if !writeAllowed(c, f) {
		c.mu.Unlock()
		return vmb.ErrorInvalidAccess
	}
	run := f.run
	c.mu.Unlock()
	return run(c)
}

func (s *System) FeatureCommandIsDone(handle vmb.Handle, name string, isDone *bool) vmb.Error {
	if isDone == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataCommand, func(_ *camera, f *feature) vmb.Error {
		*isDone = f.isDone
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureRawGet(handle vmb.Handle, name string, buffer []byte, sizeFilled *uint32) vmb.Error {
	return s.read(handle, name, vmb.FeatureDataRaw, func(_ *camera, f *feature) vmb.Error {
		return fillBytes(f.rawVal, buffer, sizeFilled)
	})
}

func (s *System) FeatureRawSet(handle vmb.Handle, name string, buffer []byte) vmb.Error {
	return s.write(handle, name, vmb.FeatureDataRaw, func(_ *camera, f *feature) vmb.Error {
		if len(buffer) != len(f.rawVal) {
			return vmb.ErrorInvalidValue
		}
		copy(f.rawVal, buffer)
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureRawLengthQuery(handle vmb.Handle, name string, length *uint32) vmb.Error {
	if length == nil {
		return vmb.ErrorBadParameter
	}
	return s.query(handle, name, vmb.FeatureDataRaw, func(_ *camera, f *feature) vmb.Error {
		*length = uint32(len(f.rawVal))
		return vmb.ErrorSuccess
	})
}

func (s *System) FeatureInvalidationRegister(handle vmb.Handle, name string, callback vmb.InvalidationCallback, userContext any) vmb.Error {
	if callback == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.tree.get(name); err != vmb.ErrorSuccess {
		return err
	}
	c.register(name, callback, userContext)
	return vmb.ErrorSuccess
}

// FeatureInvalidationUnregister removes the first registration of callback
// for name. Callbacks are matched by their code pointer, so closures built
// from the same function literal, and method values of the same method on
// different receivers, are indistinguishable; the oldest such registration
// is removed.
func (s *System) FeatureInvalidationUnregister(handle vmb.Handle, name string, callback vmb.InvalidationCallback) vmb.Error {
	if callback == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.unregister(name, callback) {
		return vmb.ErrorNotFound
	}
	return vmb.ErrorSuccess
}
