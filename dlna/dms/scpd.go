package dms

// Static SCPD (service description) documents. These list the actions
// and state variables each service exposes; they're fixed for the
// actions implemented in contentdirectory.go and connectionmanager.go.

const contentDirectorySCPD = `<?xml version="1.0" encoding="utf-8"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <actionList>
    <action><name>Browse</name>
      <argumentList>
        <argument><name>ObjectID</name><direction>in</direction></argument>
        <argument><name>BrowseFlag</name><direction>in</direction></argument>
        <argument><name>Filter</name><direction>in</direction></argument>
        <argument><name>StartingIndex</name><direction>in</direction></argument>
        <argument><name>RequestedCount</name><direction>in</direction></argument>
        <argument><name>SortCriteria</name><direction>in</direction></argument>
        <argument><name>Result</name><direction>out</direction></argument>
        <argument><name>NumberReturned</name><direction>out</direction></argument>
        <argument><name>TotalMatches</name><direction>out</direction></argument>
        <argument><name>UpdateID</name><direction>out</direction></argument>
      </argumentList>
    </action>
  </actionList>
  <serviceStateTable></serviceStateTable>
</scpd>`

const connectionManagerSCPD = `<?xml version="1.0" encoding="utf-8"?>
<scpd xmlns="urn:schemas-upnp-org:service-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <actionList>
    <action><name>GetProtocolInfo</name>
      <argumentList>
        <argument><name>Source</name><direction>out</direction></argument>
        <argument><name>Sink</name><direction>out</direction></argument>
      </argumentList>
    </action>
    <action><name>GetCurrentConnectionIDs</name>
      <argumentList><argument><name>ConnectionIDs</name><direction>out</direction></argument></argumentList>
    </action>
    <action><name>GetCurrentConnectionInfo</name>
      <argumentList>
        <argument><name>ConnectionID</name><direction>in</direction></argument>
        <argument><name>RcsID</name><direction>out</direction></argument>
        <argument><name>AVTransportID</name><direction>out</direction></argument>
        <argument><name>ProtocolInfo</name><direction>out</direction></argument>
        <argument><name>PeerConnectionManager</name><direction>out</direction></argument>
        <argument><name>PeerConnectionID</name><direction>out</direction></argument>
        <argument><name>Direction</name><direction>out</direction></argument>
        <argument><name>Status</name><direction>out</direction></argument>
      </argumentList>
    </action>
  </actionList>
  <serviceStateTable></serviceStateTable>
</scpd>`
