package wire

// RequestID is the closed enumeration of message kinds (spec.md §4.7).
// Numeric values are this client's own allocation; the wire contract only
// requires the client and agent to agree on them, which the reference
// deployment's certificate-pinned handshake already guarantees per
// connection.
const (
	HandshakeInitiate    uint32 = 0x0001
	HandshakeAcknowledge uint32 = 0x0002

	LatestBlockIDGet          uint32 = 0x0010
	BlockIDByHeightGet        uint32 = 0x0011
	BlockByIDGet              uint32 = 0x0012
	BlockIDGetNext            uint32 = 0x0013
	BlockIDGetPrev            uint32 = 0x0014
	TransactionSubmit         uint32 = 0x0015
	TransactionByIDGet        uint32 = 0x0016
	TransactionIDGetNext      uint32 = 0x0017
	TransactionIDGetPrev      uint32 = 0x0018
	TransactionIDGetBlockID   uint32 = 0x0019
	ArtifactFirstTxnByIDGet   uint32 = 0x001A
	ArtifactLastTxnByIDGet    uint32 = 0x001B
	StatusGet                 uint32 = 0x001C
	Close                     uint32 = 0x001D

	ExtendedAPIEnable      uint32 = 0x0020
	ExtendedAPISendRecv    uint32 = 0x0021
	ExtendedAPIClientReqID uint32 = 0x0022
	ExtendedAPISendRespID  uint32 = 0x0023
)

// StatusOK is the envelope status value meaning the agent accepted the
// request.
const StatusOK uint32 = 0
