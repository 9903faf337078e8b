package graph

import "github.com/flowlang/flc/datatype"

// clampInsert clips idx into [0, n] for insertion. Operations that
// target an existing element check idx with inRange instead.
func clampInsert(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

func inRange(idx, n int) bool { return idx >= 0 && idx < n }

func insertNamed(list []datatype.NamedDataType, idx int, v datatype.NamedDataType) []datatype.NamedDataType {
	idx = clampInsert(idx, len(list))
	list = append(list, datatype.NamedDataType{})
	copy(list[idx+1:], list[idx:])
	list[idx] = v
	return list
}

func removeNamed(list []datatype.NamedDataType, idx int) []datatype.NamedDataType {
	if !inRange(idx, len(list)) {
		return list
	}
	return append(list[:idx], list[idx+1:]...)
}

func insertString(list []string, idx int, v string) []string {
	idx = clampInsert(idx, len(list))
	list = append(list, "")
	copy(list[idx+1:], list[idx:])
	list[idx] = v
	return list
}

func removeString(list []string, idx int) []string {
	if !inRange(idx, len(list)) {
		return list
	}
	return append(list[:idx], list[idx+1:]...)
}

// AddDataInput inserts a new data input at insertBefore (clipped to
// [0, len]) and rebuilds the entry node (spec.md §4.4.2, §4.4.4).
func (f *GraphFunction) AddDataInput(name string, typ datatype.DataType, insertBefore int) {
	f.dataIn = insertNamed(f.dataIn, insertBefore, datatype.NamedDataType{Name: name, Type: typ})
	f.updateEntries()
}

// AddDataOutput inserts a new data output and rebuilds the exit nodes.
func (f *GraphFunction) AddDataOutput(name string, typ datatype.DataType, insertBefore int) {
	f.dataOut = insertNamed(f.dataOut, insertBefore, datatype.NamedDataType{Name: name, Type: typ})
	f.updateExits()
}

// AddExecInput inserts a new exec input and rebuilds the entry node.
func (f *GraphFunction) AddExecInput(name string, insertBefore int) {
	f.execIn = insertString(f.execIn, insertBefore, name)
	f.updateEntries()
}

// AddExecOutput inserts a new exec output and rebuilds the exit nodes.
func (f *GraphFunction) AddExecOutput(name string, insertBefore int) {
	f.execOut = insertString(f.execOut, insertBefore, name)
	f.updateExits()
}

// RemoveDataInput erases a data input (no-op if idx is out of range)
// and rebuilds the entry node.
func (f *GraphFunction) RemoveDataInput(idx int) {
	f.dataIn = removeNamed(f.dataIn, idx)
	f.updateEntries()
}

// RemoveDataOutput erases a data output and rebuilds the exit nodes.
func (f *GraphFunction) RemoveDataOutput(idx int) {
	f.dataOut = removeNamed(f.dataOut, idx)
	f.updateExits()
}

// RemoveExecInput erases an exec input and rebuilds the entry node.
func (f *GraphFunction) RemoveExecInput(idx int) {
	f.execIn = removeString(f.execIn, idx)
	f.updateEntries()
}

// RemoveExecOutput erases an exec output and rebuilds the exit nodes.
func (f *GraphFunction) RemoveExecOutput(idx int) {
	f.execOut = removeString(f.execOut, idx)
	f.updateExits()
}

// RenameDataInput renames a data input in place (no-op if out of
// range) and rebuilds the entry node.
func (f *GraphFunction) RenameDataInput(idx int, newName string) {
	if inRange(idx, len(f.dataIn)) {
		f.dataIn[idx].Name = newName
	}
	f.updateEntries()
}

// RenameDataOutput renames a data output in place and rebuilds the
// exit nodes.
func (f *GraphFunction) RenameDataOutput(idx int, newName string) {
	if inRange(idx, len(f.dataOut)) {
		f.dataOut[idx].Name = newName
	}
	f.updateExits()
}

// RenameExecInput renames an exec input in place and rebuilds the
// entry node.
func (f *GraphFunction) RenameExecInput(idx int, newName string) {
	if inRange(idx, len(f.execIn)) {
		f.execIn[idx] = newName
	}
	f.updateEntries()
}

// RenameExecOutput renames an exec output in place and rebuilds the
// exit nodes.
func (f *GraphFunction) RenameExecOutput(idx int, newName string) {
	if inRange(idx, len(f.execOut)) {
		f.execOut[idx] = newName
	}
	f.updateExits()
}

// RetypeDataInput retypes a data input in place (no-op if out of
// range) and rebuilds the entry node.
func (f *GraphFunction) RetypeDataInput(idx int, newType datatype.DataType) {
	if inRange(idx, len(f.dataIn)) {
		f.dataIn[idx].Type = newType
	}
	f.updateEntries()
}

// RetypeDataOutput retypes a data output in place and rebuilds the
// exit nodes.
func (f *GraphFunction) RetypeDataOutput(idx int, newType datatype.DataType) {
	if inRange(idx, len(f.dataOut)) {
		f.dataOut[idx].Type = newType
	}
	f.updateExits()
}
