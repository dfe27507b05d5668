package sim

import "github.com/vmbx/vmbx/vmb"

func (s *System) memoryAccess(handle vmb.Handle, address uint64, n int, sizeComplete *uint32, write bool, fn func(mem []byte)) vmb.Error {
	if sizeComplete == nil {
		return vmb.ErrorBadParameter
	}
	*sizeComplete = 0
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if write && c.access == vmb.AccessModeRead {
		return vmb.ErrorInvalidAccess
	}
	if address > memorySize || uint64(n) > memorySize-address {
		return vmb.ErrorInvalidAddress
	}
	fn(c.memory[address : address+uint64(n)])
	*sizeComplete = uint32(n)
	return vmb.ErrorSuccess
}

func (s *System) MemoryRead(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return s.memoryAccess(handle, address, len(dataBuffer), sizeComplete, false, func(mem []byte) {
		copy(dataBuffer, mem)
	})
}

func (s *System) MemoryWrite(handle vmb.Handle, address uint64, dataBuffer []byte, sizeComplete *uint32) vmb.Error {
	return s.memoryAccess(handle, address, len(dataBuffer), sizeComplete, true, func(mem []byte) {
		copy(mem, dataBuffer)
	})
}
